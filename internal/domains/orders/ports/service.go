package ports

import (
	"context"
	"io"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
)

// CreateOrderItemInput is one requested line of a new order.
type CreateOrderItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	BuyerID         int64
	ShippingAddress string
	BillingAddress  string
	Items           []CreateOrderItemInput
}

// UpdateItemInput carries optional changes to an existing line item.
type UpdateItemInput struct {
	ProductID *int64
	Quantity  *int
}

// Service exposes the order workflow to the transport layer.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*OrderSummary, int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*domain.Order, error)
	ExportCSV(ctx context.Context, filter ListFilter, w io.Writer) error

	AddItem(ctx context.Context, orderID, productID int64, quantity int) (*domain.OrderItem, error)
	UpdateItem(ctx context.Context, itemID int64, input UpdateItemInput) (*domain.OrderItem, error)
	RemoveItem(ctx context.Context, itemID int64) (*domain.OrderItem, error)
}
