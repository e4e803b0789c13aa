//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	"github.com/orderdesk/sales-admin-api/internal/platform/migrations"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("salesadmin_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedBuyer(t *testing.T, db *gorm.DB, id int64, name, email string) {
	t.Helper()
	err := db.Exec(
		"INSERT INTO clients (id, email, name, created_at) VALUES (?, ?, ?, now())",
		id, email, name,
	).Error
	require.NoError(t, err)
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, title, price string, stock int) {
	t.Helper()
	err := db.Exec(
		"INSERT INTO products (id, title, sku, stock_quantity, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
		id, title, "SKU-"+title, stock, price,
	).Error
	require.NoError(t, err)
}

func stockOf(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()
	var stock int
	err := db.Raw("SELECT stock_quantity FROM products WHERE id = ?", productID).Scan(&stock).Error
	require.NoError(t, err)
	return stock
}

func newOrder(buyerID int64, items ...domain.OrderItem) *domain.Order {
	return &domain.Order{
		BuyerID:         buyerID,
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
		Status:          domain.StatusPending,
		CreatedAt:       time.Now(),
		Items:           items,
	}
}

func TestPostgresRepository_CreateOrderDecrementsStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBuyer(t, db, 1, "Jo Doe", "jo@acme.test")
	seedProduct(t, db, 10, "Anvil", "10.00", 20)
	seedProduct(t, db, 11, "Hammer", "5.00", 20)

	created, err := repo.CreateOrder(ctx, newOrder(1,
		domain.OrderItem{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		domain.OrderItem{ProductID: 11, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Len(t, created.Items, 2)

	assert.Equal(t, 18, stockOf(t, db, 10))
	assert.Equal(t, 19, stockOf(t, db, 11))

	got, err := repo.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.Items[0].UnitPrice.StringFixed(2))
}

func TestPostgresRepository_CreateOrderInsufficientStockRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBuyer(t, db, 1, "Jo Doe", "jo@acme.test")
	seedProduct(t, db, 10, "Anvil", "10.00", 5)
	seedProduct(t, db, 11, "Hammer", "5.00", 1)

	_, err := repo.CreateOrder(ctx, newOrder(1,
		domain.OrderItem{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		domain.OrderItem{ProductID: 11, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
	))
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	// first line's decrement must have rolled back with the failure
	assert.Equal(t, 5, stockOf(t, db, 10))
	assert.Equal(t, 1, stockOf(t, db, 11))

	var count int64
	require.NoError(t, db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostgresRepository_ItemLifecycleReconcilesStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBuyer(t, db, 1, "Jo Doe", "jo@acme.test")
	seedProduct(t, db, 10, "Anvil", "10.00", 20)
	seedProduct(t, db, 11, "Hammer", "5.00", 20)

	order, err := repo.CreateOrder(ctx, newOrder(1,
		domain.OrderItem{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
	))
	require.NoError(t, err)

	item, err := repo.InsertItem(ctx, &domain.OrderItem{
		OrderID: order.ID, ProductID: 11, Quantity: 3,
		UnitPrice: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 17, stockOf(t, db, 11))

	// switch the line to the other product
	updated := *item
	updated.ProductID = 10
	updated.Quantity = 1
	updated.UnitPrice = decimal.RequireFromString("10.00")
	_, err = repo.UpdateItem(ctx, item, &updated)
	require.NoError(t, err)
	assert.Equal(t, 20, stockOf(t, db, 11))
	assert.Equal(t, 17, stockOf(t, db, 10))

	removed, err := repo.DeleteItem(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, removed.ID)
	assert.Equal(t, 18, stockOf(t, db, 10))
}

func TestPostgresRepository_ListOrdersSummaries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBuyer(t, db, 1, "Jo Doe", "jo@acme.test")
	seedBuyer(t, db, 2, "Max Roe", "max@acme.test")
	seedProduct(t, db, 10, "Anvil", "10.00", 50)
	seedProduct(t, db, 11, "Hammer", "5.00", 50)

	first, err := repo.CreateOrder(ctx, newOrder(1,
		domain.OrderItem{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		domain.OrderItem{ProductID: 11, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	))
	require.NoError(t, err)
	_, err = repo.CreateOrder(ctx, newOrder(2,
		domain.OrderItem{ProductID: 11, Quantity: 4, UnitPrice: decimal.RequireFromString("5.00")},
	))
	require.NoError(t, err)

	all, total, err := repo.ListOrders(ctx, ports.ListFilter{Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	var jo *ports.OrderSummary
	for _, summary := range all {
		if summary.Order.ID == first.ID {
			jo = summary
		}
	}
	require.NotNil(t, jo)
	assert.Equal(t, 3, jo.ItemCount)
	assert.Equal(t, "25.00", jo.TotalAmount.StringFixed(2))
	assert.Equal(t, "Jo Doe", jo.BuyerName)

	// case-insensitive buyer match
	byName, total, err := repo.ListOrders(ctx, ports.ListFilter{Query: "max", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Max Roe", byName[0].BuyerName)

	// numeric query matches the exact order id
	byID, total, err := repo.ListOrders(ctx, ports.ListFilter{Query: "1", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, first.ID, byID[0].Order.ID)

	byStatus, total, err := repo.ListOrders(ctx, ports.ListFilter{Status: domain.StatusPaid, Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, byStatus)
}

func TestPostgresRepository_DeleteOrderRemovesItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedBuyer(t, db, 1, "Jo Doe", "jo@acme.test")
	seedProduct(t, db, 10, "Anvil", "10.00", 20)

	order, err := repo.CreateOrder(ctx, newOrder(1,
		domain.OrderItem{ProductID: 10, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
	))
	require.NoError(t, err)

	deleted, err := repo.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	// items gone, stock untouched
	var items int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)
	assert.Equal(t, 18, stockOf(t, db, 10))

	_, err = repo.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
