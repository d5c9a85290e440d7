package retention

import "kitaguard/internal/domain/lifecycle"

// defaultPolicyDays are the built-in retention periods. Child records
// carry the long statutory period; operational records expire sooner.
var defaultPolicyDays = map[lifecycle.Kind]int{
	lifecycle.KindUser:            30,
	lifecycle.KindChild:           1095,
	lifecycle.KindGroup:           30,
	lifecycle.KindInstitution:     365,
	lifecycle.KindPersonalTask:    30,
	lifecycle.KindNote:            730,
	lifecycle.KindNotificationLog: 365,
	lifecycle.KindClosedDay:       365,
	lifecycle.KindMessage:         730,
	lifecycle.KindActivityLog:     1095,
	lifecycle.KindFailedLogin:     365,
}

// policyKindOrder fixes the iteration order of purge scans so runs are
// deterministic.
var policyKindOrder = []lifecycle.Kind{
	lifecycle.KindUser,
	lifecycle.KindChild,
	lifecycle.KindGroup,
	lifecycle.KindInstitution,
	lifecycle.KindPersonalTask,
	lifecycle.KindNote,
	lifecycle.KindNotificationLog,
	lifecycle.KindClosedDay,
	lifecycle.KindMessage,
	lifecycle.KindActivityLog,
	lifecycle.KindFailedLogin,
}

// PolicyTable maps entity kinds to retention durations in days. It is
// immutable after construction; overrides come from configuration at
// startup.
type PolicyTable struct {
	days map[lifecycle.Kind]int
}

func NewPolicyTable(overrides map[lifecycle.Kind]int) *PolicyTable {
	days := make(map[lifecycle.Kind]int, len(defaultPolicyDays))
	for kind, d := range defaultPolicyDays {
		days[kind] = d
	}
	for kind, d := range overrides {
		if _, known := days[kind]; known && d > 0 {
			days[kind] = d
		}
	}
	return &PolicyTable{days: days}
}

// Lookup returns the retention period in days for a kind, or
// lifecycle.ErrUnknownKind for kinds without a policy.
func (t *PolicyTable) Lookup(kind lifecycle.Kind) (int, error) {
	days, ok := t.days[kind]
	if !ok {
		return 0, lifecycle.ErrUnknownKind
	}
	return days, nil
}

// Kinds returns every kind with a policy, in fixed scan order.
func (t *PolicyTable) Kinds() []lifecycle.Kind {
	return policyKindOrder
}
