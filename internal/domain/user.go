package domain

import "time"

type Role string

const (
	RoleMember    Role = "member"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User is a league account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanOrganize reports whether u may create events.
func (u User) CanOrganize() bool {
	return u.Role == RoleOrganizer || u.Role == RoleAdmin
}
