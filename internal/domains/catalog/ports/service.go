package ports

import (
	"context"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
)

// ProductInput carries the mutable product fields for create/update.
type ProductInput struct {
	Title         string
	SKU           string
	Description   string
	StockQuantity int
	Price         string
	CategoryIDs   []int64
}

// Service exposes catalog use cases to the transport layer.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)

	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, description string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, filter CategoryFilter) ([]*domain.Category, int64, error)
}
