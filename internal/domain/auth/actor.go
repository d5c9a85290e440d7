package auth

// ActorContext is the authenticated caller as seen by handlers.
// InstitutionID is empty for super admins, who are not scoped.
type ActorContext struct {
	UserID        string
	Role          Role
	InstitutionID string
}
