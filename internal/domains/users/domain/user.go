package domain

import (
	"errors"
	"strings"
	"time"
)

// Role gates access to administrative endpoints.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var (
	ErrEmptyEmail      = errors.New("user email must not be empty")
	ErrInvalidEmail    = errors.New("user email must contain @")
	ErrEmptyName       = errors.New("user name must not be empty")
	ErrInvalidRole     = errors.New("unknown user role")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// ParseRole normalizes a role string. Empty defaults to USER.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is an operator account of the administration API.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword checks the plaintext before it is hashed. bcrypt caps
// input at 72 bytes.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

// RefreshToken is an opaque stored credential that can mint a new access
// token until it expires or is revoked.
type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
