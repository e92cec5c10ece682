package domain

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string
	Role   Role
	User   *User
}

// NewPrincipal builds a principal from a loaded user record.
func NewPrincipal(user *User) *Principal {
	return &Principal{UserID: user.ID, Role: user.Role, User: user}
}
