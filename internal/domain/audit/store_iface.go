package audit

import (
	"context"
	"time"
)

type StoreAPI interface {
	Append(ctx context.Context, entry Entry) error
	// List returns entries newest first, optionally filtered to GDPR_*
	// actions for compliance views.
	List(ctx context.Context, limit int, gdprOnly bool) ([]Entry, error)
	// ListSince returns entries created in [since, now], oldest first,
	// optionally scoped to one institution.
	ListSince(ctx context.Context, since time.Time, institutionID string) ([]Entry, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	// CountActions counts entries matching any of the given actions
	// created at or after since; a zero since means all time.
	CountActions(ctx context.Context, actions []Action, since time.Time, institutionID string) (int, error)
}
