package integrity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/lifecycle"
)

type fakeCounter struct {
	counts  map[lifecycle.Kind]int
	failFor lifecycle.Kind
}

func (f *fakeCounter) CountActive(_ context.Context, kind lifecycle.Kind) (int, error) {
	if kind == f.failFor {
		return 0, errors.New("relation does not exist")
	}
	return f.counts[kind], nil
}

type fakeAuditStore struct {
	entries  []audit.Entry
	appended []audit.Entry
}

func (f *fakeAuditStore) Append(_ context.Context, entry audit.Entry) error {
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeAuditStore) List(_ context.Context, limit int, gdprOnly bool) ([]audit.Entry, error) {
	return nil, nil
}

func (f *fakeAuditStore) ListSince(_ context.Context, since time.Time, institutionID string) ([]audit.Entry, error) {
	return nil, nil
}

func (f *fakeAuditStore) CountSince(_ context.Context, since time.Time) (int, error) {
	total := 0
	for _, entry := range f.entries {
		if !entry.CreatedAt.Before(since) {
			total++
		}
	}
	return total, nil
}

func (f *fakeAuditStore) CountActions(_ context.Context, actions []audit.Action, since time.Time, institutionID string) (int, error) {
	total := 0
	for _, entry := range f.entries {
		if !since.IsZero() && entry.CreatedAt.Before(since) {
			continue
		}
		for _, action := range actions {
			if entry.Action == action {
				total++
				break
			}
		}
	}
	return total, nil
}

func healthyAuditStore() *fakeAuditStore {
	now := time.Now().UTC()
	return &fakeAuditStore{entries: []audit.Entry{
		{Action: audit.ActionUserLogin, CreatedAt: now.Add(-time.Hour)},
		{Action: audit.ActionChildCheckIn, CreatedAt: now.Add(-2 * time.Hour)},
	}}
}

func TestVerifyHealthy(t *testing.T) {
	store := healthyAuditStore()
	svc := NewService(&fakeCounter{counts: map[lifecycle.Kind]int{lifecycle.KindUser: 5}}, audit.NewService(store), t.TempDir(), nil)

	result := svc.Verify(context.Background())
	if !result.Healthy {
		t.Fatalf("expected healthy result, got %+v", result)
	}
	if !result.Database.Healthy || !result.BlobStorage.Healthy || !result.AuditTrail.Healthy {
		t.Errorf("component checks = %+v", result)
	}

	if len(store.appended) != 1 {
		t.Fatalf("got %d verification entries, want 1", len(store.appended))
	}
	entry := store.appended[0]
	if entry.Action != audit.ActionBackupVerification {
		t.Errorf("action = %s, want %s", entry.Action, audit.ActionBackupVerification)
	}
	if entry.ActorID != audit.ActorSystem {
		t.Errorf("actor = %s, want %s", entry.ActorID, audit.ActorSystem)
	}
}

func TestVerifyFailsOnInaccessibleTable(t *testing.T) {
	svc := NewService(&fakeCounter{failFor: lifecycle.KindChild}, audit.NewService(healthyAuditStore()), t.TempDir(), nil)

	result := svc.Verify(context.Background())
	if result.Healthy || result.Database.Healthy {
		t.Fatalf("expected database check failure, got %+v", result)
	}
	if result.Database.Error == "" {
		t.Error("failed check must carry an error description")
	}
}

func TestVerifyFailsOnMissingBlobDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	svc := NewService(&fakeCounter{}, audit.NewService(healthyAuditStore()), missing, nil)

	result := svc.Verify(context.Background())
	if result.Healthy || result.BlobStorage.Healthy {
		t.Fatalf("expected blob storage failure, got %+v", result)
	}
}

func TestVerifyFailsOnSilentAuditTrail(t *testing.T) {
	// Entries exist but none within the last 24 hours.
	stale := &fakeAuditStore{entries: []audit.Entry{
		{Action: audit.ActionUserLogin, CreatedAt: time.Now().UTC().Add(-48 * time.Hour)},
	}}
	svc := NewService(&fakeCounter{}, audit.NewService(stale), t.TempDir(), nil)

	result := svc.Verify(context.Background())
	if result.Healthy || result.AuditTrail.Healthy {
		t.Fatalf("expected audit trail failure, got %+v", result)
	}
}

func TestVerifyFailsWithoutCriticalActions(t *testing.T) {
	// Recent noise without any critical action code.
	noisy := &fakeAuditStore{entries: []audit.Entry{
		{Action: audit.ActionMessageSent, CreatedAt: time.Now().UTC().Add(-time.Hour)},
	}}
	svc := NewService(&fakeCounter{}, audit.NewService(noisy), t.TempDir(), nil)

	result := svc.Verify(context.Background())
	if result.AuditTrail.Healthy {
		t.Fatalf("expected critical-action check failure, got %+v", result)
	}
}
