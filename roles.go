package auth

// UserRole is the user's role
type UserRole string

const (
	// RoleUser can read users and edit its own record
	RoleUser UserRole = "USER"
	// RoleAdmin can edit and delete any record
	RoleAdmin UserRole = "ADMIN"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether r carries administrative privileges
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type.
// An empty string resolves to RoleUser.
func ParseRole(roleStr string) (UserRole, error) {
	if roleStr == "" {
		return RoleUser, nil
	}
	role := UserRole(roleStr)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
