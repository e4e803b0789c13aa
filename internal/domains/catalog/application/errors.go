package application

import (
	"errors"
	"fmt"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrUnknownCategory signals one or more submitted category ids do not exist.
	ErrUnknownCategory = errors.New("unknown category id")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrEmptySKU) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrEmptyName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
