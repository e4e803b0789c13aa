package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/memory"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

const (
	buyerID    = int64(1)
	productAID = int64(10)
	productBID = int64(11)
)

func newTestService(t *testing.T) (*Service, *ordermemory.Repository) {
	t.Helper()
	repo := ordermemory.NewRepository()
	repo.SeedBuyer(ports.BuyerRef{ID: buyerID, Name: "Jo Doe", Email: "jo@acme.test"})
	repo.SeedProduct(ports.ProductRef{ID: productAID, Title: "Anvil", Price: decimal.RequireFromString("10.00"), StockQuantity: 50})
	repo.SeedProduct(ports.ProductRef{ID: productBID, Title: "Hammer", Price: decimal.RequireFromString("5.00"), StockQuantity: 50})
	return NewService(repo), repo
}

func placeOrder(t *testing.T, svc *Service, items ...ports.CreateOrderItemInput) *domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		BuyerID:         buyerID,
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
		Items:           items,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_SnapshotsPricesAndDecrementsStock(t *testing.T) {
	svc, repo := newTestService(t)

	order := placeOrder(t, svc,
		ports.CreateOrderItemInput{ProductID: productAID, Quantity: 2},
		ports.CreateOrderItemInput{ProductID: productBID, Quantity: 1},
	)

	require.NotZero(t, order.ID)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 2)
	require.Equal(t, "10.00", order.Items[0].UnitPrice.StringFixed(2))
	require.Equal(t, "5.00", order.Items[1].UnitPrice.StringFixed(2))

	require.Equal(t, 48, repo.StockOf(productAID))
	require.Equal(t, 49, repo.StockOf(productBID))
}

func TestCreateOrder_DuplicateProductLinesShareStock(t *testing.T) {
	svc, repo := newTestService(t)

	// Two lines of 30 each exceed the 50 in stock even though either line
	// alone would pass.
	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		BuyerID: buyerID,
		Items: []ports.CreateOrderItemInput{
			{ProductID: productAID, Quantity: 30},
			{ProductID: productAID, Quantity: 30},
		},
	})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	require.Equal(t, 50, repo.StockOf(productAID))

	order := placeOrder(t, svc,
		ports.CreateOrderItemInput{ProductID: productAID, Quantity: 30},
		ports.CreateOrderItemInput{ProductID: productAID, Quantity: 20},
	)
	require.Len(t, order.Items, 2)
	require.Equal(t, 0, repo.StockOf(productAID))
}

func TestCreateOrder_UnknownBuyer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		BuyerID: 999,
		Items:   []ports.CreateOrderItemInput{{ProductID: productAID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ports.ErrBuyerNotFound)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, ports.CreateOrderInput{BuyerID: buyerID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrder(ctx, ports.CreateOrderInput{
		BuyerID: buyerID,
		Items:   []ports.CreateOrderItemInput{{ProductID: productAID, Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// nothing moved
	require.Equal(t, 50, repo.StockOf(productAID))
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		BuyerID: buyerID,
		Items:   []ports.CreateOrderItemInput{{ProductID: productAID, Quantity: 51}},
	})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	require.Equal(t, 50, repo.StockOf(productAID))
}

func TestLaterPriceChangeDoesNotAffectExistingItems(t *testing.T) {
	svc, repo := newTestService(t)

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 1})

	repo.SeedProduct(ports.ProductRef{ID: productAID, Title: "Anvil", Price: decimal.RequireFromString("99.00"), StockQuantity: 50})

	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, "10.00", got.Items[0].UnitPrice.StringFixed(2))
}

func TestAddAndRemoveItem_StockConservation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productBID, Quantity: 1})
	initial := repo.StockOf(productAID)

	item, err := svc.AddItem(ctx, order.ID, productAID, 5)
	require.NoError(t, err)
	require.Equal(t, initial-5, repo.StockOf(productAID))

	updated, err := svc.UpdateItem(ctx, item.ID, ports.UpdateItemInput{Quantity: intPtr(8)})
	require.NoError(t, err)
	require.Equal(t, 8, updated.Quantity)
	require.Equal(t, initial-8, repo.StockOf(productAID))

	_, err = svc.UpdateItem(ctx, item.ID, ports.UpdateItemInput{Quantity: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, initial-3, repo.StockOf(productAID))

	_, err = svc.RemoveItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, initial, repo.StockOf(productAID))
}

func TestUpdateItem_ProductSwitchReconcilesBothStocks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 4})
	itemID := order.Items[0].ID
	require.Equal(t, 46, repo.StockOf(productAID))

	updated, err := svc.UpdateItem(ctx, itemID, ports.UpdateItemInput{ProductID: int64Ptr(productBID), Quantity: intPtr(2)})
	require.NoError(t, err)

	require.Equal(t, 50, repo.StockOf(productAID))
	require.Equal(t, 48, repo.StockOf(productBID))
	// unit price re-snapshotted from the new product
	require.Equal(t, "5.00", updated.UnitPrice.StringFixed(2))
}

func TestUpdateItem_QuantityOnlyKeepsSnapshot(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 2})
	itemID := order.Items[0].ID

	repo.SeedProduct(ports.ProductRef{ID: productAID, Title: "Anvil", Price: decimal.RequireFromString("42.00"), StockQuantity: repo.StockOf(productAID)})

	updated, err := svc.UpdateItem(ctx, itemID, ports.UpdateItemInput{Quantity: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, "10.00", updated.UnitPrice.StringFixed(2))
}

func TestUpdateItem_NoChangeIsNoOp(t *testing.T) {
	svc, repo := newTestService(t)

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 2})
	before := repo.StockOf(productAID)

	_, err := svc.UpdateItem(context.Background(), order.Items[0].ID, ports.UpdateItemInput{Quantity: intPtr(2)})
	require.NoError(t, err)
	require.Equal(t, before, repo.StockOf(productAID))
}

func TestRemoveItem_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RemoveItem(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrItemNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 1})

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, "paid")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, updated.Status)

	// transitions are free-form: any status may follow any other
	updated, err = svc.UpdateOrderStatus(ctx, order.ID, "PENDING")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, updated.Status)

	_, err = svc.UpdateOrderStatus(ctx, order.ID, "MISPLACED")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateOrderStatus(ctx, order.ID+99, "PAID")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListOrders_ComputedFields(t *testing.T) {
	svc, _ := newTestService(t)

	placeOrder(t, svc,
		ports.CreateOrderItemInput{ProductID: productAID, Quantity: 2},
		ports.CreateOrderItemInput{ProductID: productBID, Quantity: 1},
	)

	summaries, total, err := svc.ListOrders(context.Background(), ports.ListFilter{Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, summaries, 1)
	require.Equal(t, 3, summaries[0].ItemCount)
	require.Equal(t, "25.00", summaries[0].TotalAmount.StringFixed(2))
	require.Equal(t, "Jo Doe", summaries[0].BuyerName)
}

func TestListOrders_QueryMatchesBuyerOrNumericID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 1})
	placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productBID, Quantity: 1})

	byName, _, err := svc.ListOrders(ctx, ports.ListFilter{Query: "JO DOE", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	require.Len(t, byName, 2)

	byID, total, err := svc.ListOrders(ctx, ports.ListFilter{Query: "1", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, first.ID, byID[0].Order.ID)
}

func TestDeleteOrder_DoesNotRestoreStock(t *testing.T) {
	svc, repo := newTestService(t)

	order := placeOrder(t, svc, ports.CreateOrderItemInput{ProductID: productAID, Quantity: 5})
	require.Equal(t, 45, repo.StockOf(productAID))

	deleted, err := svc.DeleteOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, deleted.ID)
	require.Equal(t, 45, repo.StockOf(productAID))

	_, err = svc.GetOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
