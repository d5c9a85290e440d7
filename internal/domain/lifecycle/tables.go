package lifecycle

// TableInfo describes how a kind is stored so the lifecycle and
// retention stores build statements against the same schema.
type TableInfo struct {
	Name    string
	NameCol string // display-name column, "" when the kind has none
	RoleCol string // role column, users only
	InstCol string // institution scope column, "" when unscoped
}

var kindTables = map[Kind]TableInfo{
	KindUser:            {Name: "users", NameCol: "name", RoleCol: "role", InstCol: "institution_id"},
	KindChild:           {Name: "children", NameCol: "name", InstCol: "institution_id"},
	KindGroup:           {Name: "groups", NameCol: "name", InstCol: "institution_id"},
	KindInstitution:     {Name: "institutions", NameCol: "name", InstCol: "id"},
	KindPersonalTask:    {Name: "personal_tasks", NameCol: "title"},
	KindNote:            {Name: "notes", InstCol: "institution_id"},
	KindNotificationLog: {Name: "notification_logs", InstCol: "institution_id"},
	KindClosedDay:       {Name: "closed_days", InstCol: "institution_id"},
	KindMessage:         {Name: "messages", InstCol: "institution_id"},
	KindActivityLog:     {Name: "audit_entries", InstCol: "institution_id"},
	KindFailedLogin:     {Name: "failed_logins"},
	KindCheckInLog:      {Name: "check_in_logs", InstCol: "institution_id"},
}

// TableForKind resolves the backing table of a kind.
func TableForKind(kind Kind) (TableInfo, error) {
	info, ok := kindTables[kind]
	if !ok {
		return TableInfo{}, ErrUnknownKind
	}
	return info, nil
}
