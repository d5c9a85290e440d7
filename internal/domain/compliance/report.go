package compliance

import (
	"errors"
	"time"

	"kitaguard/internal/domain/audit"
)

// Range selects the reporting window length.
type Range string

const (
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
)

// ErrInvalidRange rejects report requests outside the closed range set.
var ErrInvalidRange = errors.New("invalid report range")

func windowDays(r Range) (int, error) {
	switch r {
	case RangeWeek:
		return 7, nil
	case RangeMonth:
		return 30, nil
	case RangeQuarter:
		return 90, nil
	}
	return 0, ErrInvalidRange
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type Recommendation struct {
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
}

// Report aggregates audit activity over one window with a derived
// compliance score.
type Report struct {
	PeriodStart     time.Time        `json:"periodStart"`
	PeriodEnd       time.Time        `json:"periodEnd"`
	Range           Range            `json:"range"`
	InstitutionID   string           `json:"institutionId,omitempty"`
	ProcessingCount int              `json:"processingCount"`
	DeletionCount   int              `json:"deletionCount"`
	ExportCount     int              `json:"exportCount"`
	ComplaintCount  int              `json:"complaintCount"`
	Anomalies       []Anomaly        `json:"anomalies"`
	ComplianceScore int              `json:"complianceScore"`
	Recommendations []Recommendation `json:"recommendations"`
}

// countActions splits window entries into the four compliance counters.
func countActions(entries []audit.Entry) (processing, deletion, export, complaint int) {
	for _, entry := range entries {
		switch {
		case entry.Action.IsProcessing():
			processing++
		case entry.Action.IsExport():
			export++
		case entry.Action.IsComplaint():
			complaint++
		case entry.Action.IsGDPR():
			deletion++
		}
	}
	return processing, deletion, export, complaint
}

// deletionRatioExceeded reports whether deletions outweigh a tenth of
// processing volume.
func deletionRatioExceeded(deletionCount, processingCount int) bool {
	return float64(deletionCount) > 0.1*float64(processingCount)
}

// computeScore derives the 0-100 compliance score: each anomaly costs
// 5 points, an excessive deletion ratio 10, each complaint 15.
func computeScore(anomalyCount, deletionCount, processingCount, complaintCount int) int {
	score := 100 - 5*anomalyCount - 15*complaintCount
	if deletionRatioExceeded(deletionCount, processingCount) {
		score -= 10
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// buildRecommendations derives follow-ups from the report findings.
// exportsEverSeen covers all time, not just the window, so the export
// tooling hint disappears once the first export is recorded.
func buildRecommendations(anomalyCount, deletionCount, processingCount, complaintCount int, exportsEverSeen bool) []Recommendation {
	var out []Recommendation
	if anomalyCount > 0 {
		out = append(out, Recommendation{
			Priority: PriorityHigh,
			Message:  "Investigate flagged anomalies in processing and deletion volume",
		})
	}
	if deletionRatioExceeded(deletionCount, processingCount) {
		out = append(out, Recommendation{
			Priority: PriorityMedium,
			Message:  "Audit retention settings: deletion volume exceeds 10% of processing volume",
		})
	}
	if complaintCount > 0 {
		out = append(out, Recommendation{
			Priority: PriorityHigh,
			Message:  "Resolve open data-subject complaints within 30 days",
		})
	}
	if !exportsEverSeen {
		out = append(out, Recommendation{
			Priority: PriorityLow,
			Message:  "Implement data export tooling for data-subject access requests",
		})
	}
	return out
}
