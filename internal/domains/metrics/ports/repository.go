package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Previous returns the equal-length window immediately preceding w.
func (w Window) Previous() Window {
	span := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-span), End: w.Start}
}

// Repository aggregates sales figures over a time window. Revenue and
// ActiveBuyers only count fulfilled orders (PAID or SHIPPED).
type Repository interface {
	Revenue(ctx context.Context, w Window) (decimal.Decimal, error)
	OrderCount(ctx context.Context, w Window) (int64, error)
	NewClients(ctx context.Context, w Window) (int64, error)
	ActiveBuyers(ctx context.Context, w Window) (int64, error)
}
