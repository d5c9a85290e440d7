package integrity

import "time"

// CheckResult is the outcome of one subsystem check.
type CheckResult struct {
	Healthy bool   `json:"healthy"`
	Details string `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result is the composite verification outcome. Failures are reported
// here, not raised: a failed check is a finding, not a fault.
type Result struct {
	Database    CheckResult `json:"database"`
	BlobStorage CheckResult `json:"blobStorage"`
	AuditTrail  CheckResult `json:"auditTrail"`
	Healthy     bool        `json:"healthy"`
	CheckedAt   time.Time   `json:"checkedAt"`
}
