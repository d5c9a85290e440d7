package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kitaguard/internal/domain/audit"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) GetRecord(ctx context.Context, kind Kind, id string) (Record, error) {
	info, err := TableForKind(kind)
	if err != nil {
		return Record{}, err
	}

	nameCol := "''"
	if info.NameCol != "" {
		nameCol = "COALESCE(" + info.NameCol + ", '')"
	}
	roleCol := "''"
	if info.RoleCol != "" {
		roleCol = "COALESCE(" + info.RoleCol + ", '')"
	}
	instCol := "NULL::text"
	if info.InstCol != "" {
		instCol = info.InstCol + "::text"
	}

	record := Record{Kind: kind}
	query := fmt.Sprintf(
		"SELECT id, %s, %s, %s, deleted_at FROM %s WHERE id = $1",
		nameCol, roleCol, instCol, info.Name)
	err = s.DB.QueryRow(ctx, query, id).
		Scan(&record.ID, &record.Name, &record.Role, &record.InstitutionID, &record.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	return record, nil
}

func (s *Store) RunSoftDelete(ctx context.Context, kind Kind, id string, plan []Step, now time.Time, entry audit.Entry) (Record, error) {
	info, err := TableForKind(kind)
	if err != nil {
		return Record{}, err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Record{}, fmt.Errorf("begin soft-delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := audit.NewStore(tx).Append(ctx, entry); err != nil {
		return Record{}, err
	}

	for _, step := range plan {
		query, args, err := stepSQL(step, id, now)
		if err != nil {
			return Record{}, err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return Record{}, fmt.Errorf("cascade step %s on %s: %w", step.Op, step.Target, err)
		}
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL", info.Name),
		now, id)
	if err != nil {
		return Record{}, fmt.Errorf("mark %s %s deleted: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrAlreadyDeleted
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("commit soft-delete tx: %w", err)
	}
	return s.GetRecord(ctx, kind, id)
}

// stepSQL renders one cascade step as a single statement. Keeping the
// rendering in one place makes the per-kind phase lists the only
// source of cascade behavior.
func stepSQL(step Step, entityID string, now time.Time) (string, []any, error) {
	switch step.Op {
	case OpSoftDeleteDependents:
		info, err := TableForKind(step.Target)
		if err != nil {
			return "", nil, err
		}
		query := fmt.Sprintf(
			"UPDATE %s SET deleted_at = $1 WHERE %s = $2 AND deleted_at IS NULL",
			info.Name, step.Link)
		return query, []any{now, entityID}, nil
	case OpDisconnectParents:
		return "DELETE FROM child_parents WHERE child_id = $1", []any{entityID}, nil
	case OpClearGroupRef:
		return "UPDATE children SET group_id = NULL WHERE group_id = $1 AND deleted_at IS NULL", []any{entityID}, nil
	}
	return "", nil, fmt.Errorf("unsupported cascade op %q", step.Op)
}
