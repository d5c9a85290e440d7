package lifecycle

// StepOp tags what a cascade step does to its target records.
type StepOp string

const (
	// OpSoftDeleteDependents sets deleted_at on dependent records
	// linked to the top-level entity.
	OpSoftDeleteDependents StepOp = "soft_delete_dependents"
	// OpDisconnectParents removes parent-child association rows
	// without touching either side.
	OpDisconnectParents StepOp = "disconnect_parents"
	// OpClearGroupRef detaches children from a group by nulling their
	// group reference; the children themselves stay active.
	OpClearGroupRef StepOp = "clear_group_ref"
)

// Step is one phase of a cascade. Target names the dependent kind and
// Link the column tying the dependent to the top-level entity id.
type Step struct {
	Op     StepOp
	Target Kind
	Link   string
}

// cascadePlans is the statically ordered per-kind phase list. The
// order is fixed so cascades are deterministic and auditable; there is
// deliberately no recursive graph walk.
var cascadePlans = map[Kind][]Step{
	KindUser: {
		{Op: OpSoftDeleteDependents, Target: KindPersonalTask, Link: "owner_id"},
		{Op: OpSoftDeleteDependents, Target: KindNote, Link: "author_id"},
		{Op: OpSoftDeleteDependents, Target: KindNotificationLog, Link: "recipient_id"},
		{Op: OpSoftDeleteDependents, Target: KindNotificationLog, Link: "sender_id"},
		{Op: OpSoftDeleteDependents, Target: KindMessage, Link: "sender_id"},
		{Op: OpSoftDeleteDependents, Target: KindActivityLog, Link: "actor_id"},
	},
	KindChild: {
		{Op: OpDisconnectParents, Target: KindChild, Link: "child_id"},
		{Op: OpSoftDeleteDependents, Target: KindNote, Link: "child_id"},
		{Op: OpSoftDeleteDependents, Target: KindMessage, Link: "child_id"},
		{Op: OpSoftDeleteDependents, Target: KindCheckInLog, Link: "child_id"},
	},
	KindGroup: {
		{Op: OpClearGroupRef, Target: KindChild, Link: "group_id"},
		{Op: OpSoftDeleteDependents, Target: KindMessage, Link: "group_id"},
	},
	KindInstitution: {
		{Op: OpSoftDeleteDependents, Target: KindGroup, Link: "institution_id"},
		{Op: OpSoftDeleteDependents, Target: KindChild, Link: "institution_id"},
		{Op: OpSoftDeleteDependents, Target: KindClosedDay, Link: "institution_id"},
		{Op: OpSoftDeleteDependents, Target: KindMessage, Link: "institution_id"},
		{Op: OpSoftDeleteDependents, Target: KindNotificationLog, Link: "institution_id"},
		{Op: OpSoftDeleteDependents, Target: KindCheckInLog, Link: "institution_id"},
	},
	KindPersonalTask:    {},
	KindNote:            {},
	KindNotificationLog: {},
	KindClosedDay:       {},
	KindMessage:         {},
}

// CascadePlan returns the ordered steps for soft-deleting one entity
// of the given kind. Kinds outside the orchestrator surface fail with
// ErrUnknownKind.
func CascadePlan(kind Kind) ([]Step, error) {
	plan, ok := cascadePlans[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return plan, nil
}
