package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	deliverymemory "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/adapters/memory"
	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

const (
	productAID = int64(10)
	productBID = int64(11)
)

func newTestService(t *testing.T) (*Service, *deliverymemory.Repository) {
	t.Helper()
	repo := deliverymemory.NewRepository()
	repo.SeedProduct(ports.ProductRef{ID: productAID, Title: "Anvil"}, 5)
	repo.SeedProduct(ports.ProductRef{ID: productBID, Title: "Hammer"}, 0)
	return NewService(repo), repo
}

func TestCreate_IncrementsStockOnce(t *testing.T) {
	svc, repo := newTestService(t)

	delivery, err := svc.Create(context.Background(), ports.CreateInput{
		ProductID: productAID,
		Quantity:  7,
		Note:      "morning truck",
	})
	require.NoError(t, err)
	require.NotZero(t, delivery.ID)
	require.False(t, delivery.DeliveredAt.IsZero())
	require.Equal(t, 12, repo.StockOf(productAID))
}

func TestCreate_Validation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ports.CreateInput{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	require.Equal(t, 5, repo.StockOf(productAID))
}

func TestUpdate_QuantityChangeReconcilesStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 7})
	require.NoError(t, err)
	require.Equal(t, 12, repo.StockOf(productAID))

	updated, err := svc.Update(ctx, delivery.ID, ports.UpdateInput{Quantity: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, 3, updated.Quantity)
	require.Equal(t, 8, repo.StockOf(productAID))
}

func TestUpdate_ProductSwitchMovesBothStocks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 4})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, delivery.ID, ports.UpdateInput{ProductID: int64Ptr(productBID), Quantity: intPtr(2)})
	require.NoError(t, err)
	require.Equal(t, productBID, updated.ProductID)
	require.Equal(t, 5, repo.StockOf(productAID))
	require.Equal(t, 2, repo.StockOf(productBID))
}

func TestUpdate_NoteOnlyKeepsStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 4})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, delivery.ID, ports.UpdateInput{Note: strPtr("evening truck")})
	require.NoError(t, err)
	require.Equal(t, "evening truck", updated.Note)
	require.Equal(t, 9, repo.StockOf(productAID))
}

func TestUpdate_RestoreBeyondStockRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productBID, Quantity: 6})
	require.NoError(t, err)
	require.Equal(t, 6, repo.StockOf(productBID))

	// simulate consumption elsewhere; undoing the delivery would go negative
	repo.SeedProduct(ports.ProductRef{ID: productBID, Title: "Hammer"}, 2)

	_, err = svc.Update(ctx, delivery.ID, ports.UpdateInput{ProductID: int64Ptr(productAID)})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
}

func TestDelete_RestoresStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 7})
	require.NoError(t, err)
	require.Equal(t, 12, repo.StockOf(productAID))

	deleted, err := svc.Delete(ctx, delivery.ID)
	require.NoError(t, err)
	require.Equal(t, delivery.ID, deleted.ID)
	require.Equal(t, 5, repo.StockOf(productAID))

	_, err = svc.Get(ctx, delivery.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_BlockedWhenStockConsumed(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	delivery, err := svc.Create(ctx, ports.CreateInput{ProductID: productBID, Quantity: 6})
	require.NoError(t, err)

	repo.SeedProduct(ports.ProductRef{ID: productBID, Title: "Hammer"}, 2)

	_, err = svc.Delete(ctx, delivery.ID)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
}

func TestList_FiltersByProductAndPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ports.CreateInput{ProductID: productAID, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, ports.CreateInput{ProductID: productBID, Quantity: 1})
	require.NoError(t, err)

	page, total, err := svc.List(ctx, ports.Filter{ProductID: productAID, Page: pagination.Clamp(1, 2)})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, page, 2)

	rest, _, err := svc.List(ctx, ports.Filter{ProductID: productAID, Page: pagination.Clamp(2, 2)})
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
