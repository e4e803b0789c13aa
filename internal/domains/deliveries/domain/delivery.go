package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidProduct  = errors.New("delivery requires a product reference")
	ErrInvalidQuantity = errors.New("delivery quantity must be positive")
)

// Delivery is one stock-increasing event for a product. The recorded
// quantity has already been added to the product's stock; undoing the
// record takes the same quantity back out.
type Delivery struct {
	ID          int64
	ProductID   int64
	Quantity    int
	Note        string
	DeliveredAt time.Time
}

func (d *Delivery) Validate() error {
	if d.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if d.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}
