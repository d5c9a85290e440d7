package auth

// Role is the caller's role as carried in token claims.
type Role string

const (
	// RoleSuperAdmin is the top-level administrator: sees every
	// institution and is never purged.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEducator   Role = "EDUCATOR"
	RoleParent     Role = "PARENT"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleSuperAdmin, RoleAdmin, RoleEducator, RoleParent:
		return Role(raw), true
	}
	return "", false
}
