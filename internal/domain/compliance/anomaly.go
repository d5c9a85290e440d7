package compliance

import (
	"sort"
	"time"

	"kitaguard/internal/domain/audit"
)

type AnomalyType string

const (
	AnomalyHighDataProcessing AnomalyType = "HIGH_DATA_PROCESSING"
	AnomalyHighDeletionRate   AnomalyType = "HIGH_DELETION_RATE"
)

type Severity string

const (
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Anomaly flags a statistically abnormal volume of processing or
// deletion activity within the reporting window.
type Anomaly struct {
	Type      AnomalyType  `json:"type"`
	Severity  Severity     `json:"severity"`
	Count     int          `json:"count"`
	Threshold float64      `json:"threshold"`
	Date      string       `json:"date,omitempty"`
	Action    audit.Action `json:"action,omitempty"`
}

// DetectAnomalies scans audit entries from one reporting window. It
// only reads; the detector never writes audit entries of its own.
func DetectAnomalies(entries []audit.Entry, deletionThreshold int) []Anomaly {
	anomalies := detectVolumeAnomalies(entries)
	return append(anomalies, detectDeletionAnomalies(entries, deletionThreshold)...)
}

// detectVolumeAnomalies buckets processing actions by calendar day and
// flags any day exceeding twice the mean daily count.
func detectVolumeAnomalies(entries []audit.Entry) []Anomaly {
	byDay := make(map[string]int)
	for _, entry := range entries {
		if !entry.Action.IsProcessing() {
			continue
		}
		byDay[entry.CreatedAt.UTC().Format(time.DateOnly)]++
	}
	if len(byDay) == 0 {
		return nil
	}

	total := 0
	for _, count := range byDay {
		total += count
	}
	mean := float64(total) / float64(len(byDay))
	threshold := 2 * mean

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var anomalies []Anomaly
	for _, day := range days {
		if float64(byDay[day]) > threshold {
			anomalies = append(anomalies, Anomaly{
				Type:      AnomalyHighDataProcessing,
				Severity:  SeverityMedium,
				Count:     byDay[day],
				Threshold: threshold,
				Date:      day,
			})
		}
	}
	return anomalies
}

// detectDeletionAnomalies groups GDPR action codes and flags any code
// whose count exceeds the configured threshold.
func detectDeletionAnomalies(entries []audit.Entry, threshold int) []Anomaly {
	byAction := make(map[audit.Action]int)
	for _, entry := range entries {
		if entry.Action.IsGDPR() {
			byAction[entry.Action]++
		}
	}

	actions := make([]string, 0, len(byAction))
	for action := range byAction {
		actions = append(actions, string(action))
	}
	sort.Strings(actions)

	var anomalies []Anomaly
	for _, action := range actions {
		count := byAction[audit.Action(action)]
		if count > threshold {
			anomalies = append(anomalies, Anomaly{
				Type:      AnomalyHighDeletionRate,
				Severity:  SeverityHigh,
				Count:     count,
				Threshold: float64(threshold),
				Action:    audit.Action(action),
			})
		}
	}
	return anomalies
}
