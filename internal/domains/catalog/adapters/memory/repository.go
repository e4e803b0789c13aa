// Package memory provides in-memory catalog persistence used for tests and
// as a fallback when no database is configured.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// OrderPurger removes a product's order items and any order left without
// items. The orders adapter satisfies this when both run in memory.
type OrderPurger interface {
	PurgeProduct(ctx context.Context, productID int64) error
}

// ProductMirror receives product lifecycle changes so sibling in-memory
// adapters can keep their own product ledgers aligned with the catalog.
type ProductMirror interface {
	UpsertProduct(product *domain.Product)
	RemoveProduct(productID int64)
}

// ProductRepository is an in-memory product persistence adapter.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	purger   OrderPurger
	mirrors  []ProductMirror
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: map[int64]*domain.Product{}}
}

// WithOrderPurger wires the cascade target for DeleteCascade.
func (r *ProductRepository) WithOrderPurger(p OrderPurger) *ProductRepository {
	r.purger = p
	return r
}

// WithProductMirror registers a mirror notified of every product change.
func (r *ProductRepository) WithProductMirror(m ProductMirror) *ProductRepository {
	r.mirrors = append(r.mirrors, m)
	return r
}

// notifyUpsert runs outside the repository lock; mirrors take their own.
func (r *ProductRepository) notifyUpsert(product *domain.Product) {
	for _, m := range r.mirrors {
		clone := *product
		m.UpsertProduct(&clone)
	}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	for _, existing := range r.products {
		if strings.EqualFold(existing.SKU, product.SKU) {
			r.mu.Unlock()
			return nil, ports.ErrConflict
		}
	}
	clone := *product
	r.nextID++
	clone.ID = r.nextID
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.products[clone.ID] = &clone
	r.mu.Unlock()

	r.notifyUpsert(&clone)
	out := clone
	return &out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	existing, ok := r.products[product.ID]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	for id, other := range r.products {
		if id != product.ID && strings.EqualFold(other.SKU, product.SKU) {
			r.mu.Unlock()
			return nil, ports.ErrConflict
		}
	}
	clone := *product
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	r.products[clone.ID] = &clone
	r.mu.Unlock()

	r.notifyUpsert(&clone)
	out := clone
	return &out, nil
}

func (r *ProductRepository) DeleteCascade(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	product, ok := r.products[id]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	clone := *product
	delete(r.products, id)
	r.mu.Unlock()

	if r.purger != nil {
		if err := r.purger.PurgeProduct(ctx, id); err != nil {
			return nil, err
		}
	}
	for _, m := range r.mirrors {
		m.RemoveProduct(id)
	}
	return &clone, nil
}

func (r *ProductRepository) List(_ context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Product, 0, len(r.products))
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, product := range r.products {
		if q != "" &&
			!strings.Contains(strings.ToLower(product.Title), q) &&
			!strings.Contains(strings.ToLower(product.SKU), q) &&
			!strings.Contains(strings.ToLower(product.Description), q) {
			continue
		}
		if filter.CategoryID != 0 && !containsID(product.CategoryIDs, filter.CategoryID) {
			continue
		}
		clone := *product
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	return pageSlice(matched, filter.Page.Offset(), filter.Page.Limit()), total, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func pageSlice[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
