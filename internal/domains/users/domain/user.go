// Package domain holds the users bounded context model.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Role identifiers, fixed by the seed data.
const (
	RoleAdmin    int64 = 1
	RoleCustomer int64 = 2
)

var (
	ErrEmptyName    = errors.New("first and last name are required")
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// User is a registered account. PasswordHash is a bcrypt digest; the clear
// password never leaves the application layer.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       int64
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user with normalized fields and the customer role.
func NewUser(firstName, lastName, email, address string) (*User, error) {
	u := &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Address:   strings.TrimSpace(address),
		RoleID:    RoleCustomer,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate applies the account invariants.
func (u *User) Validate() error {
	if u.FirstName == "" || u.LastName == "" {
		return ErrEmptyName
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the clear-text strength rule before hashing.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.RoleID == RoleAdmin }
