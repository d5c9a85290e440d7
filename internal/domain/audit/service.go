package audit

import (
	"context"
	"log/slog"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Record appends one lifecycle event. The log is append-only; failures
// are surfaced to the caller, not retried here.
func (s *Service) Record(ctx context.Context, actorID string, action Action, entityKind, entityID, details string, institutionID *string) error {
	return s.store.Append(ctx, NewEntry(actorID, action, entityKind, entityID, details, institutionID))
}

// RecordBestEffort is for engine-internal summary events where a
// failed write must not fail the surrounding operation.
func (s *Service) RecordBestEffort(ctx context.Context, actorID string, action Action, entityKind, entityID, details string, institutionID *string) {
	if err := s.Record(ctx, actorID, action, entityKind, entityID, details, institutionID); err != nil {
		slog.Warn("audit write failed", "action", string(action), "entityKind", entityKind, "err", err)
	}
}

func (s *Service) List(ctx context.Context, limit int, gdprOnly bool) ([]Entry, error) {
	return s.store.List(ctx, limit, gdprOnly)
}

func (s *Service) ListSince(ctx context.Context, since time.Time, institutionID string) ([]Entry, error) {
	return s.store.ListSince(ctx, since, institutionID)
}

func (s *Service) CountSince(ctx context.Context, since time.Time) (int, error) {
	return s.store.CountSince(ctx, since)
}

func (s *Service) CountActions(ctx context.Context, actions []Action, since time.Time, institutionID string) (int, error) {
	return s.store.CountActions(ctx, actions, since, institutionID)
}
