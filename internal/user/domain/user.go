package domain

import (
	"errors"
	"time"
)

// User is the core user entity. ID is the stable subject identifier carried
// in session tokens; it never changes for the principal's lifetime.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Picture      string // optional profile picture URL
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.UserName == "" {
		return errors.New("user name is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
