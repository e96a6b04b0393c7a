package domain

import (
	"fmt"
	"strings"
	"time"
)

// User-specific validation errors. All wrap ErrValidation.
var (
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyUsername    = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooShort = fmt.Errorf("%w: username must be at least 3 characters long", ErrValidation)
)

// User represents a registered user of the application.
// The plaintext password is never stored on the entity; only the bcrypt
// hash survives past registration.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and username.
// The ID is assigned by the database on insert; timestamps are set here and
// refreshed by the persistence layer on write. Returns an error if
// validation fails.
func NewUser(email, username string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Email:     email,
		Username:  strings.TrimSpace(username),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if len(strings.TrimSpace(u.Username)) < 3 {
		return ErrUsernameTooShort
	}

	return nil
}

// validateEmailFormat performs basic validation of email format: a single @
// with a dotted domain after it. Anything stricter belongs to the request
// validation layer, which uses a proper email validator.
func validateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := strings.Index(domainPart, ".")
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}
