package domain

import "time"

// MinimumAge is the youngest age accepted at registration.
const MinimumAge = 18

// User models a registered guest or an administrator.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role returns the access role granted to the user once authenticated.
func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Identity returns the request identity carried by a session for u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role()}
}
