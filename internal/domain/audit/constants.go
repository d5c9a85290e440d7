package audit

import "strings"

// Action is the closed set of audit action codes. New codes are added
// here so the orchestrator, purge engine and anomaly detector share one
// compile-time-checked vocabulary.
type Action string

const (
	ActionUserLogin        Action = "USER_LOGIN"
	ActionFailedLogin      Action = "USER_LOGIN_FAILED"
	ActionChildCheckIn     Action = "CHILD_CHECKIN"
	ActionChildCheckOut    Action = "CHILD_CHECKOUT"
	ActionMessageSent      Action = "MESSAGE_SENT"
	ActionNoteCreated      Action = "NOTE_CREATED"
	ActionNotificationSent Action = "NOTIFICATION_SENT"
	ActionTaskCreated      Action = "TASK_CREATED"

	ActionUserSoftDelete            Action = "GDPR_USER_SOFT_DELETE"
	ActionChildSoftDelete           Action = "GDPR_CHILD_SOFT_DELETE"
	ActionGroupSoftDelete           Action = "GDPR_GROUP_SOFT_DELETE"
	ActionInstitutionSoftDelete     Action = "GDPR_INSTITUTION_SOFT_DELETE"
	ActionPersonalTaskSoftDelete    Action = "GDPR_PERSONAL_TASK_SOFT_DELETE"
	ActionNoteSoftDelete            Action = "GDPR_NOTE_SOFT_DELETE"
	ActionNotificationLogSoftDelete Action = "GDPR_NOTIFICATION_LOG_SOFT_DELETE"
	ActionClosedDaySoftDelete       Action = "GDPR_CLOSED_DAY_SOFT_DELETE"
	ActionMessageSoftDelete         Action = "GDPR_MESSAGE_SOFT_DELETE"

	ActionPurgeEntity        Action = "GDPR_PURGE_ENTITY"
	ActionPurgeCompleted     Action = "GDPR_PURGE_COMPLETED"
	ActionComplianceReport   Action = "GDPR_COMPLIANCE_REPORT"
	ActionBackupVerification Action = "GDPR_BACKUP_VERIFICATION"
	ActionDataExport         Action = "GDPR_DATA_EXPORT"
	ActionComplaintReceived  Action = "GDPR_COMPLAINT_RECEIVED"
)

// ActorSystem marks entries originated by the engine itself rather
// than a user request.
const ActorSystem = "SYSTEM"

var processingActions = map[Action]bool{
	ActionChildCheckIn:     true,
	ActionChildCheckOut:    true,
	ActionMessageSent:      true,
	ActionNoteCreated:      true,
	ActionNotificationSent: true,
	ActionTaskCreated:      true,
	ActionUserLogin:        true,
}

// ExportActions and ComplaintActions feed the compliance counters.
var (
	ExportActions    = []Action{ActionDataExport}
	ComplaintActions = []Action{ActionComplaintReceived}
)

// CriticalActions are the codes the integrity verifier expects to see
// within a healthy 24h audit window.
var CriticalActions = []Action{
	ActionUserLogin,
	ActionDataExport,
	ActionUserSoftDelete,
	ActionChildSoftDelete,
	ActionGroupSoftDelete,
	ActionInstitutionSoftDelete,
	ActionPersonalTaskSoftDelete,
	ActionNoteSoftDelete,
	ActionNotificationLogSoftDelete,
	ActionClosedDaySoftDelete,
	ActionMessageSoftDelete,
}

// IsGDPR reports whether the action belongs to the deletion/compliance
// lifecycle rather than day-to-day processing.
func (a Action) IsGDPR() bool {
	return strings.HasPrefix(string(a), "GDPR_")
}

// IsProcessing reports whether the action counts as ordinary data
// processing for anomaly detection and compliance counters.
func (a Action) IsProcessing() bool {
	return processingActions[a]
}

// IsExport reports whether the action fulfils a data export request.
func (a Action) IsExport() bool {
	return a == ActionDataExport
}

// IsComplaint reports whether the action records a data-subject
// complaint.
func (a Action) IsComplaint() bool {
	return a == ActionComplaintReceived
}
