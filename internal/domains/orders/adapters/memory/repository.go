// Package memory provides in-memory order persistence used for tests and
// as a fallback when no database is configured. Stock movements are applied
// under one lock so the atomicity contract of the ports holds.
package memory

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. It also holds the
// product stock ledger and buyer directory slices the workflow reads.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	items      map[int64]*domain.OrderItem
	products   map[int64]*ports.ProductRef
	buyers     map[int64]*ports.BuyerRef
	nextOrder  int64
	nextItem   int64
}

func NewRepository() *Repository {
	return &Repository{
		orders:   map[int64]*domain.Order{},
		items:    map[int64]*domain.OrderItem{},
		products: map[int64]*ports.ProductRef{},
		buyers:   map[int64]*ports.BuyerRef{},
	}
}

// SeedProduct registers a product with its price and opening stock.
func (r *Repository) SeedProduct(product ports.ProductRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := product
	r.products[product.ID] = &clone
}

// RemoveProduct drops a product from the stock ledger.
func (r *Repository) RemoveProduct(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
}

// SeedBuyer registers a buyer.
func (r *Repository) SeedBuyer(buyer ports.BuyerRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := buyer
	r.buyers[buyer.ID] = &clone
}

// RemoveBuyer drops a buyer from the directory.
func (r *Repository) RemoveBuyer(buyerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buyers, buyerID)
}

// StockOf reports a product's current stock quantity.
func (r *Repository) StockOf(productID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if product, ok := r.products[productID]; ok {
		return product.StockQuantity
	}
	return 0
}

func (r *Repository) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Aggregate per product so several lines for the same product are
	// checked against the combined quantity, matching the per-decrement
	// guard of the postgres adapter.
	needed := map[int64]int{}
	for i := range order.Items {
		needed[order.Items[i].ProductID] += order.Items[i].Quantity
	}
	for productID, quantity := range needed {
		if err := r.checkStock(productID, quantity); err != nil {
			return nil, err
		}
	}

	clone := *order
	r.nextOrder++
	clone.ID = r.nextOrder
	clone.Items = make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		r.nextItem++
		item.ID = r.nextItem
		item.OrderID = clone.ID
		clone.Items[i] = item
		stored := item
		r.items[item.ID] = &stored
		r.products[item.ProductID].StockQuantity -= item.Quantity
	}
	r.orders[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orderByID(id)
}

func (r *Repository) ListOrders(_ context.Context, filter ports.ListFilter) ([]*ports.OrderSummary, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numericQuery, numeric := int64(0), false
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	if q != "" {
		if parsed, err := strconv.ParseInt(q, 10, 64); err == nil {
			numericQuery, numeric = parsed, true
		}
	}

	var matched []*ports.OrderSummary
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.BuyerID != 0 && order.BuyerID != filter.BuyerID {
			continue
		}
		buyer := r.buyers[order.BuyerID]
		var buyerName, buyerEmail string
		if buyer != nil {
			buyerName, buyerEmail = buyer.Name, buyer.Email
		}
		if q != "" {
			if numeric {
				if order.ID != numericQuery {
					continue
				}
			} else if !strings.Contains(strings.ToLower(buyerName), q) &&
				!strings.Contains(strings.ToLower(buyerEmail), q) {
				continue
			}
		}
		withItems, err := r.orderByID(order.ID)
		if err != nil {
			return nil, 0, err
		}
		matched = append(matched, &ports.OrderSummary{
			Order:       *withItems,
			BuyerName:   buyerName,
			BuyerEmail:  buyerEmail,
			ItemCount:   withItems.ItemCount(),
			TotalAmount: withItems.TotalAmount(),
		})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Order.ID < matched[j].Order.ID })

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

func (r *Repository) UpdateOrderStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	order.Status = status
	return r.orderByID(id)
}

func (r *Repository) DeleteOrder(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, err := r.orderByID(id)
	if err != nil {
		return nil, err
	}
	for itemID, item := range r.items {
		if item.OrderID == id {
			delete(r.items, itemID)
		}
	}
	delete(r.orders, id)
	return order, nil
}

func (r *Repository) GetItem(_ context.Context, id int64) (*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) InsertItem(_ context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	if item == nil {
		return nil, errors.New("order item is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[item.OrderID]; !ok {
		return nil, ports.ErrNotFound
	}
	if err := r.checkStock(item.ProductID, item.Quantity); err != nil {
		return nil, err
	}
	clone := *item
	r.nextItem++
	clone.ID = r.nextItem
	r.items[clone.ID] = &clone
	r.products[clone.ProductID].StockQuantity -= clone.Quantity
	out := clone
	return &out, nil
}

func (r *Repository) UpdateItem(_ context.Context, old, updated *domain.OrderItem) (*domain.OrderItem, error) {
	if old == nil || updated == nil {
		return nil, errors.New("order item is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[old.ID]; !ok {
		return nil, ports.ErrItemNotFound
	}
	// restore first so a same-product quantity change nets out
	oldProduct, ok := r.products[old.ProductID]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	oldProduct.StockQuantity += old.Quantity
	if err := r.checkStock(updated.ProductID, updated.Quantity); err != nil {
		oldProduct.StockQuantity -= old.Quantity
		return nil, err
	}
	r.products[updated.ProductID].StockQuantity -= updated.Quantity

	clone := *updated
	clone.ID = old.ID
	clone.OrderID = old.OrderID
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) DeleteItem(_ context.Context, id int64) (*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrItemNotFound
	}
	clone := *item
	delete(r.items, id)
	if product, ok := r.products[clone.ProductID]; ok {
		product.StockQuantity += clone.Quantity
	}
	return &clone, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (*ports.ProductRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetBuyer(_ context.Context, id int64) (*ports.BuyerRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buyer, ok := r.buyers[id]
	if !ok {
		return nil, ports.ErrBuyerNotFound
	}
	clone := *buyer
	return &clone, nil
}

// CountByBuyer reports how many orders a buyer owns. Satisfies the clients
// adapter's order counter when both run in memory.
func (r *Repository) CountByBuyer(_ context.Context, buyerID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			count++
		}
	}
	return count, nil
}

// PurgeProduct removes a product's order items and any order left without
// items. Satisfies the catalog adapter's cascade target when both run in
// memory.
func (r *Repository) PurgeProduct(_ context.Context, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	affected := map[int64]struct{}{}
	for itemID, item := range r.items {
		if item.ProductID == productID {
			affected[item.OrderID] = struct{}{}
			delete(r.items, itemID)
		}
	}
	for orderID := range affected {
		var remaining bool
		for _, item := range r.items {
			if item.OrderID == orderID {
				remaining = true
				break
			}
		}
		if !remaining {
			delete(r.orders, orderID)
		}
	}
	delete(r.products, productID)
	return nil
}

// orderByID assembles the aggregate with its items in creation order.
// Callers must hold at least the read lock.
func (r *Repository) orderByID(id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	clone.Items = nil
	for _, item := range r.items {
		if item.OrderID == id {
			clone.Items = append(clone.Items, *item)
		}
	}
	sort.Slice(clone.Items, func(i, j int) bool { return clone.Items[i].ID < clone.Items[j].ID })
	return &clone, nil
}

func (r *Repository) checkStock(productID int64, quantity int) error {
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrProductNotFound
	}
	if product.StockQuantity < quantity {
		return ports.ErrInsufficientStock
	}
	return nil
}
