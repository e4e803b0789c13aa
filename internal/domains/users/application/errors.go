package application

import (
	"errors"
	"fmt"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
)

var (
	// ErrInvalidInput signals the request violated a user invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidRole) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrPasswordTooLong) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
