package domain

// Role identifies the privilege level carried by a user's token.
type Role string

const (
	// RoleSuperAdmin operates across organizations and carries no organization id.
	RoleSuperAdmin Role = "superadmin"
	// RoleAdmin manages a single organization.
	RoleAdmin Role = "admin"
	// RoleUser is a storefront shopper within an organization.
	RoleUser Role = "user"
)

// KnownRoles lists every role the service issues.
var KnownRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleUser}

// Valid reports whether the role is one the service issues.
func (r Role) Valid() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}
