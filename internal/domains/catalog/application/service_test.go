package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/orderdesk/sales-admin-api/internal/domains/catalog/adapters/memory"
	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

func newTestService() (*Service, *catalogmemory.ProductRepository, *catalogmemory.CategoryRepository) {
	products := catalogmemory.NewProductRepository()
	categories := catalogmemory.NewCategoryRepository()
	return NewService(products, categories), products, categories
}

func productInput(title, sku string) ports.ProductInput {
	return ports.ProductInput{
		Title:         title,
		SKU:           sku,
		Description:   "test product",
		StockQuantity: 5,
		Price:         "19.99",
	}
}

func TestCreateProduct_Success(t *testing.T) {
	svc, _, _ := newTestService()

	product, err := svc.CreateProduct(context.Background(), productInput("Widget", "WID-1"))
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	require.Equal(t, "Widget", product.Title)
	require.Equal(t, "19.99", product.Price.StringFixed(2))
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, productInput("Widget", "WID-1"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, productInput("Other Widget", "WID-1"))
	require.ErrorIs(t, err, ports.ErrConflict)

	// first product untouched
	got, err := svc.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget", got.Title)
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, productInput("", "SKU-1"))
	require.ErrorIs(t, err, ErrInvalidInput)

	bad := productInput("Widget", "SKU-2")
	bad.Price = "free"
	_, err = svc.CreateProduct(ctx, bad)
	require.ErrorIs(t, err, ErrInvalidInput)

	negative := productInput("Widget", "SKU-3")
	negative.StockQuantity = -1
	_, err = svc.CreateProduct(ctx, negative)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _, categories := newTestService()
	ctx := context.Background()

	existing, err := svc.CreateCategory(ctx, "Hardware", "")
	require.NoError(t, err)
	_ = categories

	input := productInput("Widget", "WID-1")
	input.CategoryIDs = []int64{existing.ID, existing.ID + 99}
	_, err = svc.CreateProduct(ctx, input)
	require.ErrorIs(t, err, ErrUnknownCategory)

	// all-or-nothing: the valid id alone passes
	input.CategoryIDs = []int64{existing.ID}
	_, err = svc.CreateProduct(ctx, input)
	require.NoError(t, err)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateProduct(context.Background(), 404, productInput("Widget", "WID-1"))
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProducts_CaseInsensitiveSearch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, productInput("Acme Anvil", "ANV-1"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, productInput("Rubber Duck", "DUK-1"))
	require.NoError(t, err)

	upper, totalUpper, err := svc.ListProducts(ctx, ports.ProductFilter{Query: "ACME", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	lower, totalLower, err := svc.ListProducts(ctx, ports.ProductFilter{Query: "acme", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)

	require.Equal(t, totalUpper, totalLower)
	require.Len(t, upper, 1)
	require.Equal(t, upper[0].ID, lower[0].ID)
}

func TestListProducts_TotalIgnoresPaging(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, sku := range []string{"A-1", "A-2", "A-3"} {
		_, err := svc.CreateProduct(ctx, productInput("Widget "+sku, sku))
		require.NoError(t, err)
	}

	rows, total, err := svc.ListProducts(ctx, ports.ProductFilter{Page: pagination.Clamp(2, 2)})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Tools", "hand tools")
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, category.ID, "Power Tools", "")
	require.NoError(t, err)
	require.Equal(t, "Power Tools", updated.Name)

	_, err = svc.UpdateCategory(ctx, category.ID+1, "Nope", "")
	require.ErrorIs(t, err, ports.ErrNotFound)

	deleted, err := svc.DeleteCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Equal(t, category.ID, deleted.ID)

	_, err = svc.DeleteCategory(ctx, category.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCreateCategory_InvalidName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateCategory(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
