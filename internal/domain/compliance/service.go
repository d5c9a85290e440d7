package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/platform/metrics"
)

type Service struct {
	audits            *audit.Service
	deletionThreshold int
	metrics           *metrics.Metrics
}

func NewService(audits *audit.Service, deletionThreshold int, m *metrics.Metrics) *Service {
	if deletionThreshold <= 0 {
		deletionThreshold = 10
	}
	return &Service{audits: audits, deletionThreshold: deletionThreshold, metrics: m}
}

// GenerateReport aggregates audit activity over the requested window,
// runs anomaly detection and scores compliance. Each call leaves one
// GDPR_COMPLIANCE_REPORT audit entry.
func (s *Service) GenerateReport(ctx context.Context, actorID, institutionID string, rng Range) (Report, error) {
	return s.GenerateReportAt(ctx, actorID, institutionID, rng, time.Now().UTC())
}

func (s *Service) GenerateReportAt(ctx context.Context, actorID, institutionID string, rng Range, now time.Time) (Report, error) {
	days, err := windowDays(rng)
	if err != nil {
		return Report{}, err
	}
	windowStart := now.Add(-time.Duration(days) * 24 * time.Hour)

	entries, err := s.audits.ListSince(ctx, windowStart, institutionID)
	if err != nil {
		return Report{}, fmt.Errorf("load audit window: %w", err)
	}

	processing, deletion, export, complaint := countActions(entries)
	anomalies := DetectAnomalies(entries, s.deletionThreshold)

	exportsEver, err := s.audits.CountActions(ctx, audit.ExportActions, time.Time{}, institutionID)
	if err != nil {
		return Report{}, fmt.Errorf("count export history: %w", err)
	}

	report := Report{
		PeriodStart:     windowStart,
		PeriodEnd:       now,
		Range:           rng,
		InstitutionID:   institutionID,
		ProcessingCount: processing,
		DeletionCount:   deletion,
		ExportCount:     export,
		ComplaintCount:  complaint,
		Anomalies:       anomalies,
		ComplianceScore: computeScore(len(anomalies), deletion, processing, complaint),
		Recommendations: buildRecommendations(len(anomalies), deletion, processing, complaint, exportsEver > 0),
	}

	if actorID == "" {
		actorID = "system"
	}
	var scope *string
	if institutionID != "" {
		scope = &institutionID
	}
	s.audits.RecordBestEffort(ctx, actorID, audit.ActionComplianceReport, "", "",
		fmt.Sprintf("compliance report generated for range %s, score %d", rng, report.ComplianceScore), scope)

	if s.metrics != nil {
		s.metrics.ComplianceRuns.Inc()
		for _, anomaly := range anomalies {
			s.metrics.Anomalies.WithLabelValues(string(anomaly.Type)).Inc()
		}
	}

	slog.Info("compliance report generated",
		"range", string(rng),
		"institutionId", institutionID,
		"score", report.ComplianceScore,
		"anomalies", len(anomalies))
	return report, nil
}
