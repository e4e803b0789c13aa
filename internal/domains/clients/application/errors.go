package application

import (
	"errors"
	"fmt"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
)

var (
	// ErrInvalidInput signals the request violated a client invariant.
	ErrInvalidInput = errors.New("invalid client input")
	// ErrHasOrders blocks deletion of a client that still owns orders.
	ErrHasOrders = errors.New("client has orders")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) || errors.Is(err, domain.ErrInvalidEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
