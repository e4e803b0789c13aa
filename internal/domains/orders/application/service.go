package application

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/export"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// Service orchestrates the order workflow: order creation with price
// snapshots, item management with compensating stock adjustments, and
// status changes. The repository guarantees each mutation's row write and
// stock movement commit together.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the creation timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateOrder validates the buyer, snapshots each product's current price
// as the line's unit price, and persists the order while decrementing stock
// for every line.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if _, err := s.repo.GetBuyer(ctx, input.BuyerID); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		item := domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
		if err := item.Validate(); err != nil {
			return nil, mapError(err)
		}
		product, err := s.repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = product.Price
		items = append(items, item)
	}

	order := &domain.Order{
		BuyerID:         input.BuyerID,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Status:          domain.StatusPending,
		CreatedAt:       s.now(),
		Items:           items,
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.CreateOrder(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderSummary, int64, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.UpdateOrderStatus(ctx, id, parsed)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.DeleteOrder(ctx, id)
}

// AddItem appends a line to an existing order at the product's current
// price and decrements the product's stock atomically with the insert.
func (s *Service) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*domain.OrderItem, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	item := domain.OrderItem{OrderID: orderID, ProductID: productID, Quantity: quantity}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	item.UnitPrice = product.Price
	return s.repo.InsertItem(ctx, &item)
}

// UpdateItem applies a quantity and/or product change. A product switch
// re-snapshots the unit price from the new product; a pure quantity change
// keeps the original snapshot. Stock for both sides is reconciled in the
// repository transaction.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, input ports.UpdateItemInput) (*domain.OrderItem, error) {
	old, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if input.ProductID != nil && *input.ProductID != old.ProductID {
		product, err := s.repo.GetProduct(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		updated.ProductID = product.ID
		updated.UnitPrice = product.Price
	}
	if input.Quantity != nil {
		updated.Quantity = *input.Quantity
	}
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}
	if updated.ProductID == old.ProductID && updated.Quantity == old.Quantity {
		return old, nil
	}
	return s.repo.UpdateItem(ctx, old, &updated)
}

// RemoveItem deletes a line and restores the product's stock by the removed
// quantity atomically with the delete.
func (s *Service) RemoveItem(ctx context.Context, itemID int64) (*domain.OrderItem, error) {
	return s.repo.DeleteItem(ctx, itemID)
}

// ExportCSV streams the filtered order rows in chunks.
func (s *Service) ExportCSV(ctx context.Context, filter ports.ListFilter, w io.Writer) error {
	header := []string{"id", "buyer", "buyer_email", "status", "item_count", "total_amount", "created_at"}
	return export.Stream(ctx, w, header, func(ctx context.Context, offset, limit int) ([][]string, error) {
		page := filter
		page.Page = pagination.Request{Page: offset/limit + 1, PageSize: limit}
		summaries, _, err := s.repo.ListOrders(ctx, page)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(summaries))
		for _, summary := range summaries {
			rows = append(rows, []string{
				strconv.FormatInt(summary.Order.ID, 10),
				summary.BuyerName,
				summary.BuyerEmail,
				string(summary.Order.Status),
				strconv.Itoa(summary.ItemCount),
				summary.TotalAmount.StringFixed(2),
				summary.Order.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return rows, nil
	})
}

var _ ports.Service = (*Service)(nil)
