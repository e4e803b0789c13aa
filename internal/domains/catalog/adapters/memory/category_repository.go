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

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository is an in-memory category persistence adapter.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	nextID     int64
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: map[int64]*domain.Category{}}
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *category
	r.nextID++
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.categories[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *CategoryRepository) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.categories[category.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *category
	clone.CreatedAt = existing.CreatedAt
	r.categories[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *category
	delete(r.categories, id)
	return &clone, nil
}

func (r *CategoryRepository) List(_ context.Context, filter ports.CategoryFilter) ([]*domain.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Category, 0, len(r.categories))
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, category := range r.categories {
		if q != "" &&
			!strings.Contains(strings.ToLower(category.Name), q) &&
			!strings.Contains(strings.ToLower(category.Description), q) {
			continue
		}
		clone := *category
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	return pageSlice(matched, filter.Page.Offset(), filter.Page.Limit()), total, nil
}

func (r *CategoryRepository) CountByIDs(_ context.Context, ids []int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[int64]struct{}{}
	var count int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := r.categories[id]; ok {
			count++
		}
	}
	return count, nil
}
