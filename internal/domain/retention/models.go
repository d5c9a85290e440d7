package retention

import (
	"time"

	"kitaguard/internal/domain/lifecycle"
)

// Result summarizes one purge engine run.
type Result struct {
	PurgedCounts    map[lifecycle.Kind]int `json:"purgedCounts"`
	TotalPurged     int                    `json:"totalPurged"`
	FailedCount     int                    `json:"failedCount"`
	RetentionMonths int                    `json:"retentionMonths"`
}

// ExpiredRecord is one soft-deleted record past its retention cutoff.
type ExpiredRecord struct {
	ID   string
	Role string // users only; blank elsewhere
}

// PendingRow is the raw store projection behind the pending-deletions
// view.
type PendingRow struct {
	ID              string
	Kind            lifecycle.Kind
	Name            string
	DeletedAt       time.Time
	InstitutionID   *string
	InstitutionName string
}

// PendingDeletion is a soft-deleted record with its computed expiry.
type PendingDeletion struct {
	ID             string         `json:"id"`
	Type           lifecycle.Kind `json:"type"`
	Name           string         `json:"name"`
	DeletedAt      time.Time      `json:"deletedAt"`
	RetentionDate  time.Time      `json:"retentionDate"`
	DaysUntilPurge int            `json:"daysUntilPurge"`
	InstitutionID  string         `json:"institutionId,omitempty"`
	Institution    string         `json:"institution,omitempty"`
}

// PurgeRun is the bookkeeping row for one scheduled or manual run.
type PurgeRun struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Details     string     `json:"details,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
