package retention

import (
	"context"
	"time"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/lifecycle"
)

type StoreAPI interface {
	// ListExpired pages through soft-deleted records of one kind whose
	// deleted_at lies before cutoff, ascending by id, starting after
	// afterID. Page size is bounded by limit.
	ListExpired(ctx context.Context, kind lifecycle.Kind, cutoff time.Time, afterID string, limit int) ([]ExpiredRecord, error)
	// PurgeRecord hard-deletes one record and, when entry is non-nil,
	// appends the purge audit entry in the same transaction.
	PurgeRecord(ctx context.Context, kind lifecycle.Kind, id string, entry *audit.Entry) error
	// ListPending returns soft-deleted Users and Children, optionally
	// filtered by institution id.
	ListPending(ctx context.Context, institutionID string) ([]PendingRow, error)
	// CountActive counts live records of one kind, for integrity checks.
	CountActive(ctx context.Context, kind lifecycle.Kind) (int, error)

	CreatePurgeRun(ctx context.Context) (string, error)
	CompletePurgeRun(ctx context.Context, runID, status string, detailsJSON []byte) error
	ListPurgeRuns(ctx context.Context, limit int) ([]PurgeRun, error)
}
