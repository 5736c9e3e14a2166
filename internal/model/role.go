package model

// Role is a user's authorization role.
type Role string

const (
	// RoleUser is a regular customer.
	RoleUser Role = "user"
	// RoleAdmin manages inventory and sees sales.
	RoleAdmin Role = "admin"
)

// KnownRoles lists every role accepted at registration.
var KnownRoles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of KnownRoles.
func (r Role) Valid() bool {
	return r.In(KnownRoles...)
}

// In reports whether r is one of the given roles.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
