// Package memory provides in-memory client persistence used for tests and
// as a fallback when no database is configured.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
)

var _ ports.Repository = (*Repository)(nil)

// OrderCounter reports how many orders a buyer owns. The orders adapter
// satisfies this when both run in memory.
type OrderCounter interface {
	CountByBuyer(ctx context.Context, buyerID int64) (int64, error)
}

// BuyerMirror receives client lifecycle changes so sibling in-memory
// adapters can keep their buyer directories aligned.
type BuyerMirror interface {
	UpsertBuyer(client *domain.Client)
	RemoveBuyer(clientID int64)
}

// Repository is an in-memory client persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	clients map[int64]*domain.Client
	nextID  int64
	orders  OrderCounter
	mirrors []BuyerMirror
}

func NewRepository() *Repository {
	return &Repository{clients: map[int64]*domain.Client{}}
}

// WithOrderCounter wires the source for the delete guard.
func (r *Repository) WithOrderCounter(counter OrderCounter) *Repository {
	r.orders = counter
	return r
}

// WithBuyerMirror registers a mirror notified of every client change.
func (r *Repository) WithBuyerMirror(m BuyerMirror) *Repository {
	r.mirrors = append(r.mirrors, m)
	return r
}

// notifyUpsert runs outside the repository lock; mirrors take their own.
func (r *Repository) notifyUpsert(client *domain.Client) {
	for _, m := range r.mirrors {
		clone := *client
		m.UpsertBuyer(&clone)
	}
}

func (r *Repository) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	r.mu.Lock()
	for _, existing := range r.clients {
		if strings.EqualFold(existing.Email, client.Email) {
			r.mu.Unlock()
			return nil, ports.ErrConflict
		}
	}
	clone := *client
	r.nextID++
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.clients[clone.ID] = &clone
	r.mu.Unlock()

	r.notifyUpsert(&clone)
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *client
	return &clone, nil
}

func (r *Repository) Update(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	r.mu.Lock()
	existing, ok := r.clients[client.ID]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	for id, other := range r.clients {
		if id != client.ID && strings.EqualFold(other.Email, client.Email) {
			r.mu.Unlock()
			return nil, ports.ErrConflict
		}
	}
	clone := *client
	clone.CreatedAt = existing.CreatedAt
	r.clients[clone.ID] = &clone
	r.mu.Unlock()

	r.notifyUpsert(&clone)
	out := clone
	return &out, nil
}

// Delete removes a client unless orders still reference it. The order count
// is read under the repository lock so no order can slip in between the
// check and the removal.
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.Client, error) {
	r.mu.Lock()
	client, ok := r.clients[id]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	if r.orders != nil {
		count, err := r.orders.CountByBuyer(ctx, id)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		if count > 0 {
			r.mu.Unlock()
			return nil, ports.ErrHasOrders
		}
	}
	clone := *client
	delete(r.clients, id)
	r.mu.Unlock()

	for _, m := range r.mirrors {
		m.RemoveBuyer(id)
	}
	return &clone, nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Client, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Client, 0, len(r.clients))
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, client := range r.clients {
		if q != "" &&
			!strings.Contains(strings.ToLower(client.Name), q) &&
			!strings.Contains(strings.ToLower(client.Email), q) &&
			!strings.Contains(strings.ToLower(client.Phone), q) &&
			!strings.Contains(strings.ToLower(client.Company), q) {
			continue
		}
		clone := *client
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	offset, limit := filter.Page.Offset(), filter.Page.Limit()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

