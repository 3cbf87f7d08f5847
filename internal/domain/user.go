// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"regexp"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
)

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameInvalid = errors.New("username may only contain letters, numbers and underscore")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ValidateUsername enforces the registration rules. The relay itself only
// requires a non-empty username; the strict pattern applies to accounts.
func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}
