package application

import (
	"context"
	"time"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
)

// Service records incoming stock. Every mutation keeps the product's stock
// quantity consistent with the net effect of all recorded deliveries; the
// repository commits record and stock movement together.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the deliveredAt timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create records a delivery and adds its quantity to the product's stock.
func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Delivery, error) {
	delivery := &domain.Delivery{
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		Note:        input.Note,
		DeliveredAt: s.now(),
	}
	if err := delivery.Validate(); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, delivery)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Delivery, int64, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a product, quantity or note change. When product or
// quantity changes, the old quantity is returned from the old product and
// the new quantity applied to the new product in one transaction.
func (s *Service) Update(ctx context.Context, id int64, input ports.UpdateInput) (*domain.Delivery, error) {
	old, err := s.repo.GetByID(ctx, id)
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
	}
	if input.Quantity != nil {
		updated.Quantity = *input.Quantity
	}
	if input.Note != nil {
		updated.Note = *input.Note
	}
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}
	if updated == *old {
		return old, nil
	}
	return s.repo.Update(ctx, old, &updated)
}

// Delete removes the record and takes its quantity back out of the
// product's stock, keeping creation and deletion symmetric.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Delivery, error) {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
