package ports

import (
	"context"
	"io"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
)

// ClientInput carries the mutable client fields for create/update.
type ClientInput struct {
	Email   string
	Name    string
	Phone   string
	Address string
	Company string
}

// Bulk-delete failure reasons reported per id.
const (
	ReasonHasOrders = "has_orders"
	ReasonNotFound  = "not_found"
)

// BulkDeleteFailure describes why one id in a bulk delete was skipped.
type BulkDeleteFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// BulkDeleteResult reports per-item outcomes instead of failing the batch.
type BulkDeleteResult struct {
	Deleted int                 `json:"deleted"`
	Failed  []BulkDeleteFailure `json:"failed"`
}

// Service exposes client directory use cases to the transport layer.
type Service interface {
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	Update(ctx context.Context, id int64, input ClientInput) (*domain.Client, error)
	// Delete is blocked while the client still has orders.
	Delete(ctx context.Context, id int64) (*domain.Client, error)
	BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error)
	List(ctx context.Context, filter Filter) ([]*domain.Client, int64, error)
	ExportCSV(ctx context.Context, filter Filter, w io.Writer) error
}
