package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitaguard/internal/domain/audit"
)

// memAuditStore is the in-memory audit backend for report tests.
type memAuditStore struct {
	entries []audit.Entry
}

func (m *memAuditStore) Append(_ context.Context, entry audit.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAuditStore) List(_ context.Context, limit int, gdprOnly bool) ([]audit.Entry, error) {
	return nil, nil
}

func (m *memAuditStore) ListSince(_ context.Context, since time.Time, institutionID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, entry := range m.entries {
		if entry.CreatedAt.Before(since) {
			continue
		}
		if institutionID != "" && (entry.InstitutionID == nil || *entry.InstitutionID != institutionID) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *memAuditStore) CountSince(_ context.Context, since time.Time) (int, error) {
	return len(m.entries), nil
}

func (m *memAuditStore) CountActions(_ context.Context, actions []audit.Action, since time.Time, institutionID string) (int, error) {
	total := 0
	for _, entry := range m.entries {
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

func TestComputeScoreClamping(t *testing.T) {
	if got := computeScore(0, 0, 100, 0); got != 100 {
		t.Errorf("clean window score = %d, want 100", got)
	}
	if got := computeScore(0, 0, 100, 10); got != 0 {
		t.Errorf("10 complaints should clamp to 0, got %d", got)
	}
	if got := computeScore(3, 0, 100, 0); got != 85 {
		t.Errorf("3 anomalies score = %d, want 85", got)
	}
	if got := computeScore(0, 20, 100, 0); got != 90 {
		t.Errorf("excessive deletion ratio score = %d, want 90", got)
	}
	if got := computeScore(1, 20, 100, 1); got != 70 {
		t.Errorf("combined penalties score = %d, want 70", got)
	}
}

func TestComputeScoreMonotonicInComplaints(t *testing.T) {
	previous := 101
	for complaints := 0; complaints < 10; complaints++ {
		score := computeScore(0, 0, 100, complaints)
		if score > previous {
			t.Fatalf("score rose from %d to %d at %d complaints", previous, score, complaints)
		}
		previous = score
	}
}

func TestDeletionRatio(t *testing.T) {
	if deletionRatioExceeded(10, 100) {
		t.Error("10 of 100 is exactly the boundary and must not exceed")
	}
	if !deletionRatioExceeded(11, 100) {
		t.Error("11 of 100 exceeds the 10% ratio")
	}
	if deletionRatioExceeded(0, 0) {
		t.Error("an empty window has no excessive ratio")
	}
}

func TestGenerateReportUniformWeek(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &memAuditStore{}
	for day := 1; day <= 7; day++ {
		for i := 0; i < 10; i++ {
			store.entries = append(store.entries, audit.Entry{
				Action:    audit.ActionChildCheckIn,
				CreatedAt: now.AddDate(0, 0, -day).Add(time.Duration(i) * time.Minute),
			})
		}
	}

	svc := NewService(audit.NewService(store), 10, nil)
	report, err := svc.GenerateReportAt(context.Background(), "admin-1", "", RangeWeek, now)
	if err != nil {
		t.Fatalf("GenerateReportAt: %v", err)
	}

	if report.ComplianceScore != 100 {
		t.Errorf("score = %d, want 100", report.ComplianceScore)
	}
	if report.ProcessingCount != 70 {
		t.Errorf("processingCount = %d, want 70", report.ProcessingCount)
	}
	if len(report.Anomalies) != 0 {
		t.Errorf("anomalies = %+v, want none", report.Anomalies)
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0].Priority != PriorityLow {
		t.Errorf("want only the low-priority export tooling hint, got %+v", report.Recommendations)
	}
}

func TestGenerateReportCountsAndPenalties(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	inWindow := now.AddDate(0, 0, -2)
	store := &memAuditStore{}
	for i := 0; i < 20; i++ {
		store.entries = append(store.entries, audit.Entry{Action: audit.ActionMessageSent, CreatedAt: inWindow})
	}
	for i := 0; i < 5; i++ {
		store.entries = append(store.entries, audit.Entry{Action: audit.ActionUserSoftDelete, CreatedAt: inWindow})
	}
	store.entries = append(store.entries,
		audit.Entry{Action: audit.ActionDataExport, CreatedAt: inWindow},
		audit.Entry{Action: audit.ActionComplaintReceived, CreatedAt: inWindow},
	)

	svc := NewService(audit.NewService(store), 10, nil)
	report, err := svc.GenerateReportAt(context.Background(), "admin-1", "", RangeWeek, now)
	if err != nil {
		t.Fatalf("GenerateReportAt: %v", err)
	}

	if report.ProcessingCount != 20 || report.DeletionCount != 5 || report.ExportCount != 1 || report.ComplaintCount != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 20/5/1/1",
			report.ProcessingCount, report.DeletionCount, report.ExportCount, report.ComplaintCount)
	}
	// 5 deletions of 20 processing exceeds the 10% ratio: -10; one
	// complaint: -15.
	if report.ComplianceScore != 75 {
		t.Errorf("score = %d, want 75", report.ComplianceScore)
	}

	var sawExportHint bool
	for _, rec := range report.Recommendations {
		if rec.Priority == PriorityLow {
			sawExportHint = true
		}
	}
	if sawExportHint {
		t.Error("export tooling hint must disappear once an export exists")
	}
}

func TestGenerateReportWritesAuditEntry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &memAuditStore{}

	svc := NewService(audit.NewService(store), 10, nil)
	if _, err := svc.GenerateReportAt(context.Background(), "", "", RangeMonth, now); err != nil {
		t.Fatalf("GenerateReportAt: %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(store.entries))
	}
	entry := store.entries[0]
	if entry.Action != audit.ActionComplianceReport {
		t.Errorf("action = %s, want %s", entry.Action, audit.ActionComplianceReport)
	}
	if entry.ActorID != "system" {
		t.Errorf("empty actor should default to system, got %s", entry.ActorID)
	}
}

func TestGenerateReportInvalidRange(t *testing.T) {
	svc := NewService(audit.NewService(&memAuditStore{}), 10, nil)
	if _, err := svc.GenerateReport(context.Background(), "admin-1", "", Range("year")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}

func TestWindowDays(t *testing.T) {
	for rng, want := range map[Range]int{RangeWeek: 7, RangeMonth: 30, RangeQuarter: 90} {
		days, err := windowDays(rng)
		if err != nil {
			t.Fatalf("windowDays(%s): %v", rng, err)
		}
		if days != want {
			t.Errorf("windowDays(%s) = %d, want %d", rng, days, want)
		}
	}
}
