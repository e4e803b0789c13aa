package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

var (
	ErrNotFound = errors.New("catalog entity not found")
	// ErrConflict signals a duplicate SKU.
	ErrConflict = errors.New("catalog uniqueness conflict")
)

// ProductFilter narrows product listings. Query matches title, SKU, and
// description case-insensitively.
type ProductFilter struct {
	Query      string
	CategoryID int64
	Page       pagination.Request
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Query string
	Page  pagination.Request
}

// ProductRepository persists products. Create and Update return ErrConflict
// on duplicate SKUs.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// DeleteCascade removes the product, its order items, and any order left
	// without items, all in one transaction. It returns the deleted product.
	DeleteCascade(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, int64, error)
	// CountByIDs reports how many of the given ids exist, deduplicated.
	CountByIDs(ctx context.Context, ids []int64) (int64, error)
}
