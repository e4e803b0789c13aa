package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
)

// ErrInvalidWindow signals an unsupported reporting window.
var ErrInvalidWindow = errors.New("unsupported reporting window")

var supportedWindows = map[int]bool{7: true, 30: true, 90: true}

// Service assembles the sales dashboard by comparing the current window
// against the equal-length window immediately preceding it.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the window anchor for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Dashboard(ctx context.Context, days int) (*ports.Dashboard, error) {
	if !supportedWindows[days] {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, days)
	}

	end := s.now()
	current := ports.Window{Start: end.AddDate(0, 0, -days), End: end}
	previous := current.Previous()

	revenue, err := s.moneyStat(ctx, current, previous, s.repo.Revenue)
	if err != nil {
		return nil, err
	}
	orders, err := s.countStat(ctx, current, previous, s.repo.OrderCount)
	if err != nil {
		return nil, err
	}
	newClients, err := s.countStat(ctx, current, previous, s.repo.NewClients)
	if err != nil {
		return nil, err
	}
	activeBuyers, err := s.countStat(ctx, current, previous, s.repo.ActiveBuyers)
	if err != nil {
		return nil, err
	}

	return &ports.Dashboard{
		WindowDays:   days,
		Revenue:      revenue,
		Orders:       orders,
		NewClients:   newClients,
		ActiveBuyers: activeBuyers,
	}, nil
}

func (s *Service) moneyStat(ctx context.Context, current, previous ports.Window, fetch func(context.Context, ports.Window) (decimal.Decimal, error)) (ports.MoneyStat, error) {
	cur, err := fetch(ctx, current)
	if err != nil {
		return ports.MoneyStat{}, err
	}
	prev, err := fetch(ctx, previous)
	if err != nil {
		return ports.MoneyStat{}, err
	}
	return ports.MoneyStat{Current: cur, Previous: prev, ChangePct: percentChange(cur, prev)}, nil
}

func (s *Service) countStat(ctx context.Context, current, previous ports.Window, fetch func(context.Context, ports.Window) (int64, error)) (ports.CountStat, error) {
	cur, err := fetch(ctx, current)
	if err != nil {
		return ports.CountStat{}, err
	}
	prev, err := fetch(ctx, previous)
	if err != nil {
		return ports.CountStat{}, err
	}
	return ports.CountStat{
		Current:   cur,
		Previous:  prev,
		ChangePct: percentChange(decimal.NewFromInt(cur), decimal.NewFromInt(prev)),
	}, nil
}

// percentChange compares two figures. A zero previous window reads as a
// full gain when anything was earned, and flat otherwise.
func percentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

var _ ports.Service = (*Service)(nil)
