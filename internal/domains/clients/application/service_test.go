package application

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	clientmemory "github.com/orderdesk/sales-admin-api/internal/domains/clients/adapters/memory"
	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

type stubOrderCounter struct {
	counts map[int64]int64
}

func (s *stubOrderCounter) CountByBuyer(_ context.Context, buyerID int64) (int64, error) {
	return s.counts[buyerID], nil
}

func clientInput(email, name, company string) ports.ClientInput {
	return ports.ClientInput{Email: email, Name: name, Company: company}
}

func TestCreateClient_DuplicateEmail(t *testing.T) {
	svc := NewService(clientmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, clientInput("jo@acme.test", "Jo", "Acme Corp"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, clientInput("JO@acme.test", "Other Jo", ""))
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestCreateClient_InvalidEmail(t *testing.T) {
	svc := NewService(clientmemory.NewRepository())

	_, err := svc.Create(context.Background(), clientInput("not-an-email", "Jo", ""))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteClient_BlockedByOrders(t *testing.T) {
	counter := &stubOrderCounter{counts: map[int64]int64{}}
	repo := clientmemory.NewRepository().WithOrderCounter(counter)
	svc := NewService(repo)
	ctx := context.Background()

	client, err := svc.Create(ctx, clientInput("jo@acme.test", "Jo", ""))
	require.NoError(t, err)
	counter.counts[client.ID] = 2

	_, err = svc.Delete(ctx, client.ID)
	require.ErrorIs(t, err, ErrHasOrders)

	counter.counts[client.ID] = 0
	deleted, err := svc.Delete(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, client.ID, deleted.ID)
}

func TestDeleteClient_GuardAtomicWithRemoval(t *testing.T) {
	counter := &stubOrderCounter{counts: map[int64]int64{}}
	repo := clientmemory.NewRepository().WithOrderCounter(counter)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Client{Email: "jo@acme.test", Name: "Jo"})
	require.NoError(t, err)
	counter.counts[created.ID] = 1

	// The repository itself refuses the delete; the check and the removal
	// are one step, not a lookup the service does beforehand.
	_, err = repo.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrHasOrders)

	still, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, still.ID)
}

func TestBulkDelete_ReportsPerItemOutcomes(t *testing.T) {
	counter := &stubOrderCounter{counts: map[int64]int64{}}
	repo := clientmemory.NewRepository().WithOrderCounter(counter)
	svc := NewService(repo)
	ctx := context.Background()

	withOrders, err := svc.Create(ctx, clientInput("a@acme.test", "A", ""))
	require.NoError(t, err)
	counter.counts[withOrders.ID] = 1

	deletable, err := svc.Create(ctx, clientInput("b@acme.test", "B", ""))
	require.NoError(t, err)

	missing := deletable.ID + 99

	result, err := svc.BulkDelete(ctx, []int64{withOrders.ID, deletable.ID, missing})
	require.NoError(t, err)
	require.Equal(t, 1, result.Deleted)
	require.ElementsMatch(t, []ports.BulkDeleteFailure{
		{ID: withOrders.ID, Reason: ports.ReasonHasOrders},
		{ID: missing, Reason: ports.ReasonNotFound},
	}, result.Failed)
}

func TestListClients_CaseInsensitiveCompanySearch(t *testing.T) {
	svc := NewService(clientmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, clientInput("jo@acme.test", "Jo", "Acme Corp"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, clientInput("pat@other.test", "Pat", "Other Inc"))
	require.NoError(t, err)

	upper, _, err := svc.List(ctx, ports.Filter{Query: "ACME", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)
	lower, _, err := svc.List(ctx, ports.Filter{Query: "acme", Page: pagination.Clamp(1, 10)})
	require.NoError(t, err)

	require.Len(t, upper, 1)
	require.Len(t, lower, 1)
	require.Equal(t, upper[0].ID, lower[0].ID)
}

func TestExportCSV_WritesFilteredRows(t *testing.T) {
	svc := NewService(clientmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, clientInput("jo@acme.test", "Jo", "Acme Corp"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, clientInput("pat@other.test", "Pat", "Other Inc"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = svc.ExportCSV(ctx, ports.Filter{Query: "acme"}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "email")
	require.Contains(t, lines[1], "jo@acme.test")
}
