package auth

// RegisterUserMessage carries the fields of a registration request.
// Role is USER when empty and IsActive is true when nil.
type RegisterUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive,omitempty"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// UpdateUserMessage carries optional field changes. Nil fields are left as is.
type UpdateUserMessage struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (e UpdateUserMessage) Type() string { return "user.update" }

// Empty reports whether the message changes nothing
func (e UpdateUserMessage) Empty() bool {
	return e.Email == nil && e.Password == nil && e.Name == nil &&
		e.Role == nil && e.IsActive == nil
}
