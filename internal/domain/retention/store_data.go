package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/auth"
	"kitaguard/internal/domain/lifecycle"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) ListExpired(ctx context.Context, kind lifecycle.Kind, cutoff time.Time, afterID string, limit int) ([]ExpiredRecord, error) {
	info, err := lifecycle.TableForKind(kind)
	if err != nil {
		return nil, err
	}

	roleCol := "''"
	if info.RoleCol != "" {
		roleCol = "COALESCE(" + info.RoleCol + ", '')"
	}

	query := fmt.Sprintf(`
    SELECT id, %s FROM %s
    WHERE deleted_at IS NOT NULL AND deleted_at < $1 AND id > $2
  `, roleCol, info.Name)
	if info.RoleCol != "" {
		query += fmt.Sprintf(" AND %s <> '%s'", info.RoleCol, auth.RoleSuperAdmin)
	}
	query += " ORDER BY id ASC LIMIT $3"

	rows, err := s.DB.Query(ctx, query, cutoff, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired %s: %w", kind, err)
	}
	defer rows.Close()

	var out []ExpiredRecord
	for rows.Next() {
		var record ExpiredRecord
		if err := rows.Scan(&record.ID, &record.Role); err != nil {
			return nil, fmt.Errorf("scan expired %s: %w", kind, err)
		}
		out = append(out, record)
	}
	return out, nil
}

// PurgeRecord deletes one record and writes its purge audit entry in
// the same transaction, so a crash can leave neither an unaudited
// purge nor a phantom audit entry.
func (s *Store) PurgeRecord(ctx context.Context, kind lifecycle.Kind, id string, entry *audit.Entry) error {
	info, err := lifecycle.TableForKind(kind)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND deleted_at IS NOT NULL", info.Name), id)
	if err != nil {
		return fmt.Errorf("purge %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return lifecycle.ErrNotFound
	}

	if entry != nil {
		if err := audit.NewStore(tx).Append(ctx, *entry); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit purge tx: %w", err)
	}
	return nil
}

func (s *Store) ListPending(ctx context.Context, institutionID string) ([]PendingRow, error) {
	query := `
    SELECT u.id, 'User', COALESCE(u.name, ''), u.deleted_at, u.institution_id::text, COALESCE(i.name, '')
    FROM users u
    LEFT JOIN institutions i ON i.id = u.institution_id
    WHERE u.deleted_at IS NOT NULL
  `
	args := []any{}
	if institutionID != "" {
		query += " AND u.institution_id = $1"
		args = append(args, institutionID)
	}
	query += `
    UNION ALL
    SELECT c.id, 'Child', COALESCE(c.name, ''), c.deleted_at, c.institution_id::text, COALESCE(i.name, '')
    FROM children c
    LEFT JOIN institutions i ON i.id = c.institution_id
    WHERE c.deleted_at IS NOT NULL
  `
	if institutionID != "" {
		query += " AND c.institution_id = $1"
	}
	query += " ORDER BY 4 ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending deletions: %w", err)
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var row PendingRow
		var kind string
		if err := rows.Scan(&row.ID, &kind, &row.Name, &row.DeletedAt, &row.InstitutionID, &row.InstitutionName); err != nil {
			return nil, fmt.Errorf("scan pending deletion: %w", err)
		}
		row.Kind = lifecycle.Kind(kind)
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) CountActive(ctx context.Context, kind lifecycle.Kind) (int, error) {
	info, err := lifecycle.TableForKind(kind)
	if err != nil {
		return 0, err
	}
	var total int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE deleted_at IS NULL", info.Name)
	if err := s.DB.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count active %s: %w", kind, err)
	}
	return total, nil
}

func (s *Store) CreatePurgeRun(ctx context.Context) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO purge_runs (status) VALUES ($1) RETURNING id
  `, RunStatusRunning).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("create purge run: %w", err)
	}
	return runID, nil
}

func (s *Store) CompletePurgeRun(ctx context.Context, runID, status string, detailsJSON []byte) error {
	if detailsJSON == nil {
		detailsJSON = []byte("{}")
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE purge_runs SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID)
	if err != nil {
		return fmt.Errorf("complete purge run: %w", err)
	}
	return nil
}

func (s *Store) ListPurgeRuns(ctx context.Context, limit int) ([]PurgeRun, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, status, COALESCE(details_json::text, ''), started_at, completed_at
    FROM purge_runs
    ORDER BY started_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, fmt.Errorf("list purge runs: %w", err)
	}
	defer rows.Close()

	var out []PurgeRun
	for rows.Next() {
		var run PurgeRun
		if err := rows.Scan(&run.ID, &run.Status, &run.Details, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan purge run: %w", err)
		}
		out = append(out, run)
	}
	return out, nil
}
