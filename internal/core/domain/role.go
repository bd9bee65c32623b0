package domain

// Role is a user's permission level within a tenant. The set is closed:
// authorization checks are built from these constants, never from raw strings.
type Role string

const (
	// RoleAdmin has full control: manage the tenant, its users, and its books.
	RoleAdmin Role = "admin"
	// RoleLibrarian manages the book catalog but not users.
	RoleLibrarian Role = "librarian"
	// RoleMember has read-only access to the catalog.
	RoleMember Role = "member"
)

// ParseRole converts a stored or transmitted string into a Role.
// Unknown values are rejected rather than passed through.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether the role is one of the three known variants.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }
