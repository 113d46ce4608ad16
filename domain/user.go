package domain

import "strings"

// Role is the coarse authorization tier of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered identity. Users are never modified or deleted once created.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// MatchesEmail compares emails case-insensitively.
func (u *User) MatchesEmail(email string) bool {
	return u != nil && strings.EqualFold(u.Email, email)
}
