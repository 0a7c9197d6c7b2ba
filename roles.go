package booknote

// Role is the closed set of roles a user can hold. The column is a plain
// string in the store; ParseRole is the only way a request value becomes one.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin unlocks the user-management and operational endpoints.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role passes the admin gate.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// AllRoles returns the predefined roles in ascending privilege order.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// RequireAdmin is the access gate applied after identity resolution: it
// passes admin identities through unchanged and fails everything else with
// ErrForbidden. Pure, no I/O; a failed check is terminal for the request.
func RequireAdmin(identity Identity) (Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if !identity.Role().IsAdmin() {
		return nil, ErrForbidden
	}
	return identity, nil
}
