package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrItemNotFound    = errors.New("order item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrBuyerNotFound   = errors.New("buyer not found")
	// ErrInsufficientStock rejects any mutation that would drive a product's
	// stock quantity negative.
	ErrInsufficientStock = errors.New("insufficient product stock")
)

// ProductRef is the slice of a product the order workflow needs: current
// price for snapshotting and current stock for display.
type ProductRef struct {
	ID            int64
	Title         string
	Price         decimal.Decimal
	StockQuantity int
}

// BuyerRef is the slice of a client the order workflow needs.
type BuyerRef struct {
	ID    int64
	Name  string
	Email string
}

// OrderSummary is a list row with its computed fields.
type OrderSummary struct {
	Order       domain.Order
	BuyerName   string
	BuyerEmail  string
	ItemCount   int
	TotalAmount decimal.Decimal
}

// ListFilter narrows order listings. Query matches buyer name/email
// case-insensitively, or the exact order id when it parses as a number.
type ListFilter struct {
	Query   string
	Status  domain.Status
	BuyerID int64
	Page    pagination.Request
}

// Repository persists orders, their items, and the stock adjustments those
// mutations imply. Every method that both writes a row and moves stock must
// commit the two together or not at all.
type Repository interface {
	// CreateOrder inserts the header and items and decrements each product's
	// stock by its line quantity, in one transaction.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*OrderSummary, int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	// DeleteOrder removes the header and its items. Stock is not restored.
	DeleteOrder(ctx context.Context, id int64) (*domain.Order, error)

	GetItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	// InsertItem creates the item and decrements the product's stock by the
	// item quantity, in one transaction.
	InsertItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error)
	// UpdateItem persists the updated item, restores old.ProductID's stock by
	// old.Quantity, and decrements updated.ProductID's stock by
	// updated.Quantity, all in one transaction.
	UpdateItem(ctx context.Context, old, updated *domain.OrderItem) (*domain.OrderItem, error)
	// DeleteItem removes the item and restores the product's stock by the
	// removed quantity, in one transaction.
	DeleteItem(ctx context.Context, id int64) (*domain.OrderItem, error)

	GetProduct(ctx context.Context, id int64) (*ProductRef, error)
	GetBuyer(ctx context.Context, id int64) (*BuyerRef, error)
}
