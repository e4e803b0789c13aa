package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	metricsmemory "github.com/orderdesk/sales-admin-api/internal/domains/metrics/adapters/memory"
)

var anchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *metricsmemory.Repository) *Service {
	return NewService(repo).WithClock(func() time.Time { return anchor })
}

func daysAgo(n int) time.Time { return anchor.AddDate(0, 0, -n) }

func TestDashboard_RejectsUnsupportedWindow(t *testing.T) {
	svc := newTestService(metricsmemory.NewRepository())

	for _, days := range []int{0, 1, 14, 365} {
		_, err := svc.Dashboard(context.Background(), days)
		require.ErrorIs(t, err, ErrInvalidWindow)
	}
}

func TestDashboard_ComparesAgainstPreviousWindow(t *testing.T) {
	repo := metricsmemory.NewRepository()
	// current 7-day window
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("30.00"), Fulfilled: true, CreatedAt: daysAgo(2)})
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 2, Total: decimal.RequireFromString("10.00"), Fulfilled: true, CreatedAt: daysAgo(5)})
	// pending orders count but earn nothing
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 3, Total: decimal.RequireFromString("99.00"), Fulfilled: false, CreatedAt: daysAgo(1)})
	// previous 7-day window
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("20.00"), Fulfilled: true, CreatedAt: daysAgo(10)})
	// outside both windows
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("500.00"), Fulfilled: true, CreatedAt: daysAgo(20)})

	repo.RecordClient(daysAgo(3))
	repo.RecordClient(daysAgo(4))
	repo.RecordClient(daysAgo(12))

	dashboard, err := newTestService(repo).Dashboard(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, 7, dashboard.WindowDays)
	require.Equal(t, "40.00", dashboard.Revenue.Current.StringFixed(2))
	require.Equal(t, "20.00", dashboard.Revenue.Previous.StringFixed(2))
	require.InDelta(t, 100.0, dashboard.Revenue.ChangePct, 0.001)

	require.Equal(t, int64(3), dashboard.Orders.Current)
	require.Equal(t, int64(1), dashboard.Orders.Previous)
	require.InDelta(t, 200.0, dashboard.Orders.ChangePct, 0.001)

	require.Equal(t, int64(2), dashboard.NewClients.Current)
	require.Equal(t, int64(1), dashboard.NewClients.Previous)

	// buyer 3's pending order does not make it active
	require.Equal(t, int64(2), dashboard.ActiveBuyers.Current)
	require.Equal(t, int64(1), dashboard.ActiveBuyers.Previous)
}

func TestDashboard_ZeroPreviousWindow(t *testing.T) {
	repo := metricsmemory.NewRepository()
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("15.00"), Fulfilled: true, CreatedAt: daysAgo(1)})

	dashboard, err := newTestService(repo).Dashboard(context.Background(), 7)
	require.NoError(t, err)

	// growth from nothing reads as +100
	require.InDelta(t, 100.0, dashboard.Revenue.ChangePct, 0.001)
	// nothing either side reads as flat
	require.InDelta(t, 0.0, dashboard.NewClients.ChangePct, 0.001)
	require.Zero(t, dashboard.NewClients.Current)
}

func TestDashboard_NegativeChange(t *testing.T) {
	repo := metricsmemory.NewRepository()
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("25.00"), Fulfilled: true, CreatedAt: daysAgo(2)})
	repo.RecordOrder(metricsmemory.OrderFact{BuyerID: 1, Total: decimal.RequireFromString("100.00"), Fulfilled: true, CreatedAt: daysAgo(10)})

	dashboard, err := newTestService(repo).Dashboard(context.Background(), 7)
	require.NoError(t, err)
	require.InDelta(t, -75.0, dashboard.Revenue.ChangePct, 0.001)
}
