// Package memory provides in-memory delivery persistence used for tests
// and as a fallback when no database is configured. Stock movements are
// applied under one lock so the atomicity contract of the ports holds.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory delivery persistence adapter. It also holds
// the product stock ledger the workflow reconciles against.
type Repository struct {
	mu         sync.RWMutex
	deliveries map[int64]*domain.Delivery
	products   map[int64]*productState
	nextID     int64
}

type productState struct {
	ref   ports.ProductRef
	stock int
}

func NewRepository() *Repository {
	return &Repository{
		deliveries: map[int64]*domain.Delivery{},
		products:   map[int64]*productState{},
	}
}

// SeedProduct registers a product with its opening stock.
func (r *Repository) SeedProduct(product ports.ProductRef, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = &productState{ref: product, stock: stock}
}

// RemoveProduct drops a product from the stock ledger.
func (r *Repository) RemoveProduct(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
}

// StockOf reports a product's current stock quantity.
func (r *Repository) StockOf(productID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if product, ok := r.products[productID]; ok {
		return product.stock
	}
	return 0
}

func (r *Repository) Create(_ context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	if delivery == nil {
		return nil, errors.New("delivery is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[delivery.ProductID]
	if !ok {
		return nil, ports.ErrProductNotFound
	}

	clone := *delivery
	r.nextID++
	clone.ID = r.nextID
	r.deliveries[clone.ID] = &clone
	product.stock += clone.Quantity
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *delivery
	return &clone, nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Delivery, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Delivery, 0, len(r.deliveries))
	for _, delivery := range r.deliveries {
		if filter.ProductID != 0 && delivery.ProductID != filter.ProductID {
			continue
		}
		clone := *delivery
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := filter.Page.Offset()
	if start > len(matched) {
		return []*domain.Delivery{}, total, nil
	}
	end := start + filter.Page.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *Repository) Update(_ context.Context, old, updated *domain.Delivery) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.deliveries[old.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}

	if old.ProductID != updated.ProductID || old.Quantity != updated.Quantity {
		oldProduct, ok := r.products[old.ProductID]
		if !ok {
			return nil, ports.ErrProductNotFound
		}
		newProduct, ok := r.products[updated.ProductID]
		if !ok {
			return nil, ports.ErrProductNotFound
		}
		if oldProduct.stock < old.Quantity {
			return nil, ports.ErrInsufficientStock
		}
		oldProduct.stock -= old.Quantity
		newProduct.stock += updated.Quantity
	}

	clone := *updated
	clone.DeliveredAt = current.DeliveredAt
	r.deliveries[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, id int64) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	product, ok := r.products[delivery.ProductID]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	if product.stock < delivery.Quantity {
		return nil, ports.ErrInsufficientStock
	}
	product.stock -= delivery.Quantity
	delete(r.deliveries, id)
	clone := *delivery
	return &clone, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (*ports.ProductRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := product.ref
	return &clone, nil
}
