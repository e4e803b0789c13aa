package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
)

// Service orchestrates product and category use cases.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
}

func NewService(products ports.ProductRepository, categories ports.CategoryRepository) *Service {
	return &Service{products: products, categories: categories}
}

func (s *Service) CreateProduct(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(input.Title, input.SKU, input.Description, input.StockQuantity, price, input.CategoryIDs)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.checkCategories(ctx, product.CategoryIDs); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, input ports.ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	updated, err := domain.NewProduct(input.Title, input.SKU, input.Description, input.StockQuantity, price, input.CategoryIDs)
	if err != nil {
		return nil, mapError(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.checkCategories(ctx, updated.CategoryIDs); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, updated)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.DeleteCascade(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, mapError(err)
	}
	return s.categories.Create(ctx, category)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, mapError(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	return s.categories.Update(ctx, updated)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, filter ports.CategoryFilter) ([]*domain.Category, int64, error) {
	return s.categories.List(ctx, filter)
}

// checkCategories verifies every submitted category id exists. The match is
// all-or-nothing: the count of found rows must equal the count of distinct
// submitted ids.
func (s *Service) checkCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	distinct := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}
	count, err := s.categories.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(distinct)) {
		return ErrUnknownCategory
	}
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed price %q", ErrInvalidInput, raw)
	}
	return price, nil
}

var _ ports.Service = (*Service)(nil)
