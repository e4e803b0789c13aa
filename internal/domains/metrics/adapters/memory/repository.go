// Package memory aggregates metrics over recorded facts, used for tests
// and as a fallback when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
)

var _ ports.Repository = (*Repository)(nil)

// OrderFact is the slice of an order the aggregations need.
type OrderFact struct {
	BuyerID   int64
	Total     decimal.Decimal
	Fulfilled bool
	CreatedAt time.Time
}

// Repository computes window aggregates over in-memory facts.
type Repository struct {
	mu      sync.RWMutex
	orders  []OrderFact
	clients []time.Time
}

func NewRepository() *Repository {
	return &Repository{}
}

// RecordOrder adds an order fact.
func (r *Repository) RecordOrder(fact OrderFact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, fact)
}

// RecordClient adds a client signup timestamp.
func (r *Repository) RecordClient(createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append(r.clients, createdAt)
}

func (r *Repository) Revenue(_ context.Context, w ports.Window) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, order := range r.orders {
		if order.Fulfilled && inWindow(order.CreatedAt, w) {
			total = total.Add(order.Total)
		}
	}
	return total, nil
}

func (r *Repository) OrderCount(_ context.Context, w ports.Window) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, order := range r.orders {
		if inWindow(order.CreatedAt, w) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) NewClients(_ context.Context, w ports.Window) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, createdAt := range r.clients {
		if inWindow(createdAt, w) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ActiveBuyers(_ context.Context, w ports.Window) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buyers := map[int64]bool{}
	for _, order := range r.orders {
		if order.Fulfilled && inWindow(order.CreatedAt, w) {
			buyers[order.BuyerID] = true
		}
	}
	return int64(len(buyers)), nil
}

func inWindow(at time.Time, w ports.Window) bool {
	return !at.Before(w.Start) && at.Before(w.End)
}
