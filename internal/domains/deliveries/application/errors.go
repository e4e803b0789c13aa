package application

import (
	"errors"
	"fmt"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
)

// ErrInvalidInput signals the request violated a delivery invariant.
var ErrInvalidInput = errors.New("invalid delivery input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProduct) || errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
