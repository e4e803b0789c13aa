package application

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/export"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

// Service orchestrates client directory use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input ports.ClientInput) (*domain.Client, error) {
	client, err := domain.NewClient(input.Email, input.Name, input.Phone, input.Address, input.Company)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, client)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input ports.ClientInput) (*domain.Client, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := domain.NewClient(input.Email, input.Name, input.Phone, input.Address, input.Company)
	if err != nil {
		return nil, mapError(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, updated)
}

// Delete refuses to remove a client that still has orders. The repository
// enforces the guard atomically with the removal.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.repo.Delete(ctx, id)
	if errors.Is(err, ports.ErrHasOrders) {
		return nil, ErrHasOrders
	}
	return client, err
}

// BulkDelete deletes each id independently and reports per-item outcomes.
func (s *Service) BulkDelete(ctx context.Context, ids []int64) (*ports.BulkDeleteResult, error) {
	result := &ports.BulkDeleteResult{Failed: []ports.BulkDeleteFailure{}}
	for _, id := range ids {
		_, err := s.Delete(ctx, id)
		switch {
		case err == nil:
			result.Deleted++
		case errors.Is(err, ErrHasOrders):
			result.Failed = append(result.Failed, ports.BulkDeleteFailure{ID: id, Reason: ports.ReasonHasOrders})
		case errors.Is(err, ports.ErrNotFound):
			result.Failed = append(result.Failed, ports.BulkDeleteFailure{ID: id, Reason: ports.ReasonNotFound})
		default:
			return nil, err
		}
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Client, int64, error) {
	return s.repo.List(ctx, filter)
}

// ExportCSV streams the filtered client set in chunks.
func (s *Service) ExportCSV(ctx context.Context, filter ports.Filter, w io.Writer) error {
	header := []string{"id", "email", "name", "phone", "address", "company", "created_at"}
	return export.Stream(ctx, w, header, func(ctx context.Context, offset, limit int) ([][]string, error) {
		page := filter
		page.Page = pagination.Request{Page: offset/limit + 1, PageSize: limit}
		clients, _, err := s.repo.List(ctx, page)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(clients))
		for _, c := range clients {
			rows = append(rows, []string{
				strconv.FormatInt(c.ID, 10),
				c.Email,
				c.Name,
				c.Phone,
				c.Address,
				c.Company,
				c.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return rows, nil
	})
}

var _ ports.Service = (*Service)(nil)
