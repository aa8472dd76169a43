package domain

// Role is the access level of a caller. Roles are ordered:
// anonymous < user < admin.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleAnonymous: 0,
	RoleUser:      1,
	RoleAdmin:     2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants every permission of min.
// Unknown roles never satisfy anything.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= need
}

// Identity is the authenticated (or anonymous) caller of a single request.
// It is resolved once per request and passed explicitly to the services.
type Identity struct {
	UserID   string
	Username string
	Role     Role
}

// Anonymous returns the identity of a caller without a session.
func Anonymous() Identity {
	return Identity{Role: RoleAnonymous}
}

// Authenticated reports whether the identity belongs to a logged-in user.
func (i Identity) Authenticated() bool {
	return i.UserID != "" && i.Role.AtLeast(RoleUser)
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
