package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
	RolePlayer UserRole = "player"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RolePlayer:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Email        *string   `json:"email,omitempty"`
	Name         *string   `json:"name,omitempty"`
	Nickname     string    `json:"nickname"`
	Discord      *string   `json:"discord,omitempty"`
	PasswordHash *string   `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
