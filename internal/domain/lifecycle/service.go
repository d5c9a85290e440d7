package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kitaguard/internal/domain/audit"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// SoftDelete marks one entity and its cascade dependents as deleted.
// The request audit entry, the cascade and the top-level update share
// one transaction: either everything is persisted or nothing is.
func (s *Service) SoftDelete(ctx context.Context, kind Kind, id, actorID, reason string) (Record, error) {
	action, ok := SoftDeleteAction(kind)
	if !ok {
		return Record{}, ErrUnknownKind
	}
	plan, err := CascadePlan(kind)
	if err != nil {
		return Record{}, err
	}

	record, err := s.store.GetRecord(ctx, kind, id)
	if err != nil {
		return Record{}, err
	}
	if record.DeletedAt != nil {
		return Record{}, ErrAlreadyDeleted
	}

	details := "soft delete requested"
	if reason != "" {
		details = fmt.Sprintf("soft delete requested: %s", reason)
	}
	entry := audit.NewEntry(actorID, action, string(kind), id, details, record.InstitutionID)

	now := time.Now().UTC()
	updated, err := s.store.RunSoftDelete(ctx, kind, id, plan, now, entry)
	if err != nil {
		if errors.Is(err, ErrAlreadyDeleted) || errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		slog.Warn("soft delete failed", "kind", string(kind), "id", id, "err", err)
		return Record{}, &TransactionError{Kind: kind, ID: id, Err: err}
	}

	slog.Info("record soft-deleted", "kind", string(kind), "id", id, "actor", actorID, "steps", len(plan))
	return updated, nil
}
