package ports

import (
	"context"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
)

// CreateInput carries a new stock delivery.
type CreateInput struct {
	ProductID int64
	Quantity  int
	Note      string
}

// UpdateInput carries optional changes to a recorded delivery.
type UpdateInput struct {
	ProductID *int64
	Quantity  *int
	Note      *string
}

// Service exposes the delivery workflow to the transport layer.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*domain.Delivery, error)
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	List(ctx context.Context, filter Filter) ([]*domain.Delivery, int64, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*domain.Delivery, error)
	Delete(ctx context.Context, id int64) (*domain.Delivery, error)
}
