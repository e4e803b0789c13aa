package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order states. Any status may follow any other; only
// membership in the enum is enforced.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrInvalidBuyer    = errors.New("buyer id must be greater than zero")
	ErrInvalidProduct  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNoItems         = errors.New("order requires at least one item")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// ParseStatus validates a raw status value. The empty string defaults to
// PENDING.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if status == "" {
		return StatusPending, nil
	}
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsFulfilled reports whether the order counts toward revenue and activity
// metrics.
func (s Status) IsFulfilled() bool {
	return s == StatusPaid || s == StatusShipped
}

// OrderItem is one line of an order. UnitPrice is snapshotted from the
// product at the time the line is created and never re-derived afterwards.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Validate enforces line-item invariants.
func (i *OrderItem) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Subtotal is unit price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the order aggregate: a header plus its line items. Item order is
// creation order.
type Order struct {
	ID              int64
	BuyerID         int64
	ShippingAddress string
	BillingAddress  string
	Status          Status
	CreatedAt       time.Time
	Items           []OrderItem
}

// Validate enforces aggregate invariants for creation.
func (o *Order) Validate() error {
	if o.BuyerID <= 0 {
		return ErrInvalidBuyer
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if _, err := ParseStatus(string(o.Status)); err != nil {
		return err
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ItemCount is the sum of line quantities.
func (o *Order) ItemCount() int {
	var count int
	for i := range o.Items {
		count += o.Items[i].Quantity
	}
	return count
}

// TotalAmount is the sum of line subtotals.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}
