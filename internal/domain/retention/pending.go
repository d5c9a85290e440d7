package retention

import (
	"context"
	"errors"
	"time"

	"kitaguard/internal/domain/auth"
)

// ErrScopeRequired is returned when a non-super-admin caller asks for
// pending deletions without an institution scope.
var ErrScopeRequired = errors.New("institution scope required")

// PendingDeletions lists soft-deleted Users and Children with their
// computed expiry. Super admins see all records; every other caller is
// scoped to one institution, filtered by stable institution id.
func (e *Engine) PendingDeletions(ctx context.Context, callerRole auth.Role, institutionID string) ([]PendingDeletion, error) {
	return e.PendingDeletionsAt(ctx, callerRole, institutionID, time.Now().UTC())
}

func (e *Engine) PendingDeletionsAt(ctx context.Context, callerRole auth.Role, institutionID string, now time.Time) ([]PendingDeletion, error) {
	if callerRole != auth.RoleSuperAdmin && institutionID == "" {
		return nil, ErrScopeRequired
	}

	rows, err := e.store.ListPending(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	out := make([]PendingDeletion, 0, len(rows))
	for _, row := range rows {
		days, err := e.policies.Lookup(row.Kind)
		if err != nil {
			return nil, err
		}
		retentionDate := row.DeletedAt.AddDate(0, 0, days)
		remaining := int(retentionDate.Sub(now).Hours() / 24)
		if remaining < 0 {
			remaining = 0
		}

		pending := PendingDeletion{
			ID:             row.ID,
			Type:           row.Kind,
			Name:           row.Name,
			DeletedAt:      row.DeletedAt,
			RetentionDate:  retentionDate,
			DaysUntilPurge: remaining,
			Institution:    row.InstitutionName,
		}
		if row.InstitutionID != nil {
			pending.InstitutionID = *row.InstitutionID
		}
		out = append(out, pending)
	}
	return out, nil
}
