package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// MoneyStat is a monetary figure with its previous-window comparison.
type MoneyStat struct {
	Current   decimal.Decimal
	Previous  decimal.Decimal
	ChangePct float64
}

// CountStat is a count with its previous-window comparison.
type CountStat struct {
	Current   int64
	Previous  int64
	ChangePct float64
}

// Dashboard is the sales overview for one reporting window.
type Dashboard struct {
	WindowDays   int
	Revenue      MoneyStat
	Orders       CountStat
	NewClients   CountStat
	ActiveBuyers CountStat
}

// Service computes dashboards for the supported windows (7, 30, 90 days).
type Service interface {
	Dashboard(ctx context.Context, days int) (*Dashboard, error)
}
