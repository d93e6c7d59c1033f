package domain

// Principal is the outcome of resolving a request's identity: either an
// authenticated user or an anonymous caller.
type Principal struct {
	ID       string
	Username string
	Role     Role

	authenticated bool
}

// Anonymous returns the principal of a caller without a usable token.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated returns the principal for a resolved user.
func Authenticated(u *User) Principal {
	return Principal{
		ID:            u.ID,
		Username:      u.Username,
		Role:          u.Role,
		authenticated: true,
	}
}

func (p Principal) IsAuthenticated() bool {
	return p.authenticated
}

// IsElevated reports whether p is authenticated with the elevated role.
func (p Principal) IsElevated() bool {
	return p.authenticated && p.Role == RoleElevated
}

// Owns reports whether p is the recorded owner of a resource. Resources
// without an owner are owned by nobody.
func (p Principal) Owns(ownerID string) bool {
	return p.authenticated && ownerID != "" && p.ID == ownerID
}
