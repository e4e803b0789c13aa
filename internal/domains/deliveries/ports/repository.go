package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

var (
	ErrNotFound          = errors.New("delivery not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRef is the slice of a product the delivery workflow needs.
type ProductRef struct {
	ID    int64
	Title string
}

// Filter narrows delivery listings.
type Filter struct {
	ProductID int64
	Page      pagination.Request
}

// Repository persists deliveries. Every mutation moves the referenced
// product's stock in the same transaction as the record write:
//
//   - Create adds the delivery's quantity to the product's stock.
//   - Update takes the old quantity back from the old product and adds the
//     new quantity to the new product; a restore that would drive stock
//     negative fails the whole transaction with ErrInsufficientStock.
//   - Delete takes the delivery's quantity back from its product, under the
//     same non-negative guard.
type Repository interface {
	Create(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error)
	GetByID(ctx context.Context, id int64) (*domain.Delivery, error)
	List(ctx context.Context, filter Filter) ([]*domain.Delivery, int64, error)
	Update(ctx context.Context, old, updated *domain.Delivery) (*domain.Delivery, error)
	Delete(ctx context.Context, id int64) (*domain.Delivery, error)

	GetProduct(ctx context.Context, id int64) (*ProductRef, error)
}
