package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

var (
	ErrNotFound = errors.New("client not found")
	// ErrConflict signals a duplicate email.
	ErrConflict = errors.New("client email already registered")
	// ErrHasOrders signals a delete refused because orders still reference
	// the client.
	ErrHasOrders = errors.New("client still referenced by orders")
)

// Filter narrows client listings. Query matches name, email, phone, and
// company case-insensitively.
type Filter struct {
	Query string
	Page  pagination.Request
}

// Repository persists clients.
type Repository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
	// Delete removes a client, returning ErrHasOrders when orders still
	// reference it. The check and removal are one atomic step.
	Delete(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context, filter Filter) ([]*domain.Client, int64, error)
}
