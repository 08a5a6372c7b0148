package domain

import (
	"errors"
	"time"
)

// Role is the access level stored on a person record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPersonHasBooks     = errors.New("person still has books on loan")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUsername    = errors.New("unknown username")
)

// Person is a registered patron or librarian.
type Person struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"                    validate:"required,min=2,max=100"`
	Username     string     `json:"username"                validate:"required,min=2,max=100"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
}

// IsAdmin reports whether the person holds the admin role.
func (p *Person) IsAdmin() bool {
	return p.Role == RoleAdmin
}
