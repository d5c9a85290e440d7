package lifecycle

import (
	"context"
	"time"

	"kitaguard/internal/domain/audit"
)

type StoreAPI interface {
	// GetRecord loads the lifecycle view of one entity, or ErrNotFound.
	GetRecord(ctx context.Context, kind Kind, id string) (Record, error)
	// RunSoftDelete executes the cascade plan, sets deleted_at on the
	// top-level record and appends the request audit entry, all inside
	// one transaction. Any failure rolls everything back, the audit
	// entry included.
	RunSoftDelete(ctx context.Context, kind Kind, id string, plan []Step, now time.Time, entry audit.Entry) (Record, error)
}
