package lifecycle

import "kitaguard/internal/domain/audit"

// Kind identifies a soft-deletable entity type.
type Kind string

const (
	KindUser            Kind = "User"
	KindChild           Kind = "Child"
	KindGroup           Kind = "Group"
	KindInstitution     Kind = "Institution"
	KindPersonalTask    Kind = "PersonalTask"
	KindNote            Kind = "Note"
	KindNotificationLog Kind = "NotificationLog"
	KindClosedDay       Kind = "ClosedDay"
	KindMessage         Kind = "Message"
	KindActivityLog     Kind = "ActivityLog"
	KindFailedLogin     Kind = "FailedLogin"
	KindCheckInLog      Kind = "CheckInLog"
)

var softDeleteActions = map[Kind]audit.Action{
	KindUser:            audit.ActionUserSoftDelete,
	KindChild:           audit.ActionChildSoftDelete,
	KindGroup:           audit.ActionGroupSoftDelete,
	KindInstitution:     audit.ActionInstitutionSoftDelete,
	KindPersonalTask:    audit.ActionPersonalTaskSoftDelete,
	KindNote:            audit.ActionNoteSoftDelete,
	KindNotificationLog: audit.ActionNotificationLogSoftDelete,
	KindClosedDay:       audit.ActionClosedDaySoftDelete,
	KindMessage:         audit.ActionMessageSoftDelete,
}

// SoftDeleteAction maps a kind to its request audit code. Only kinds
// exposed through the orchestrator have one.
func SoftDeleteAction(kind Kind) (audit.Action, bool) {
	action, ok := softDeleteActions[kind]
	return action, ok
}

// ParseKind validates an external kind string.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindUser, KindChild, KindGroup, KindInstitution, KindPersonalTask,
		KindNote, KindNotificationLog, KindClosedDay, KindMessage,
		KindActivityLog, KindFailedLogin, KindCheckInLog:
		return Kind(raw), nil
	}
	return "", ErrUnknownKind
}
