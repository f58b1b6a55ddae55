package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Authorities expands a role into the permission strings carried by the
// request-scoped principal.
func (r Role) Authorities() []string {
	switch r {
	case RoleTeacher:
		return []string{"courses:read", "courses:write", "enrollments:read", "submissions:read", "grades:write"}
	case RoleAdmin:
		return []string{"courses:read", "courses:write", "enrollments:read", "enrollments:write", "submissions:read", "submissions:write", "grades:write", "users:write"}
	default:
		return []string{"courses:read", "enrollments:write", "submissions:write"}
	}
}

type User struct {
	ID           int32
	StudentID    string // stable university identifier, used as token subject
	Name         string
	Email        string
	Role         Role
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
}
