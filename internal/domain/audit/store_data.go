package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"kitaguard/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Append(ctx context.Context, entry Entry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_entries (id, actor_id, action, entity_kind, entity_id, details, institution_id, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, entry.ID, entry.ActorID, string(entry.Action), entry.EntityKind, entry.EntityID, entry.Details, entry.InstitutionID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int, gdprOnly bool) ([]Entry, error) {
	query := `
    SELECT id, actor_id, action, entity_kind, entity_id, details, institution_id, created_at, deleted_at
    FROM audit_entries
    WHERE deleted_at IS NULL
  `
	if gdprOnly {
		query += " AND action LIKE 'GDPR_%'"
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := s.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) ListSince(ctx context.Context, since time.Time, institutionID string) ([]Entry, error) {
	query := `
    SELECT id, actor_id, action, entity_kind, entity_id, details, institution_id, created_at, deleted_at
    FROM audit_entries
    WHERE deleted_at IS NULL AND created_at >= $1
  `
	args := []any{since}
	if institutionID != "" {
		query += " AND institution_id = $2"
		args = append(args, institutionID)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) CountSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM audit_entries
    WHERE deleted_at IS NULL AND created_at >= $1
  `, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return total, nil
}

func (s *Store) CountActions(ctx context.Context, actions []Action, since time.Time, institutionID string) (int, error) {
	codes := make([]string, 0, len(actions))
	for _, action := range actions {
		codes = append(codes, string(action))
	}

	query := `
    SELECT COUNT(1) FROM audit_entries
    WHERE deleted_at IS NULL AND action = ANY($1)
  `
	args := []any{codes}
	if !since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
		args = append(args, since)
	}
	if institutionID != "" {
		query += fmt.Sprintf(" AND institution_id = $%d", len(args)+1)
		args = append(args, institutionID)
	}

	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count audit actions: %w", err)
	}
	return total, nil
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var entry Entry
		var action string
		if err := rows.Scan(&entry.ID, &entry.ActorID, &action, &entry.EntityKind, &entry.EntityID, &entry.Details, &entry.InstitutionID, &entry.CreatedAt, &entry.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = Action(action)
		out = append(out, entry)
	}
	return out, nil
}
