// Package observability decorates the order workflow with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
)

const tracerName = "github.com/orderdesk/sales-admin-api/internal/domains/orders/adapters/observability/service"

// Service decorates an order workflow port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core workflow service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder places an order with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.Int64("order.buyer_id", input.BuyerID),
		attribute.Int("order.lines", len(input.Items)),
	)
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("buyer.id", input.BuyerID), slog.Int("lines", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("buyer.id", input.BuyerID))
	}
	s.metrics.recordOrderCreated(ctx, result.Status)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.Int64("order.id", id))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderSummary, int64, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders", attribute.String("order.query", filter.Query))
	defer span.End()

	result, total, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, 0, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, total, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrderStatus",
		attribute.Int64("order.id", id),
		attribute.String("order.status.requested", status),
	)
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", id), slog.String("status", status))
	result, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.Int64("order.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	result, err := s.inner.DeleteOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordOrderDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) ExportCSV(ctx context.Context, filter ports.ListFilter, w io.Writer) error {
	ctx, span := s.startSpan(ctx, "Service.ExportCSV", attribute.String("order.query", filter.Query))
	defer span.End()

	s.logInfo(ctx, "exporting orders")
	if err := s.inner.ExportCSV(ctx, filter, w); err != nil {
		return s.handleError(ctx, span, err, "failed to export orders")
	}
	return nil
}

// AddItem appends a line item with instrumentation.
func (s *Service) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.AddItem",
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	)
	defer span.End()

	s.logInfo(ctx, "adding order item", slog.Int64("order.id", orderID), slog.Int64("product.id", productID))
	result, err := s.inner.AddItem(ctx, orderID, productID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add order item", slog.Int64("order.id", orderID))
	}
	s.metrics.recordStockMoved(ctx, -result.Quantity)
	s.logInfo(ctx, "order item added", slog.Int64("item.id", result.ID))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID int64, input ports.UpdateItemInput) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateItem", attribute.Int64("item.id", itemID))
	defer span.End()

	s.logInfo(ctx, "updating order item", slog.Int64("item.id", itemID))
	result, err := s.inner.UpdateItem(ctx, itemID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order item", slog.Int64("item.id", itemID))
	}
	s.logInfo(ctx, "order item updated", slog.Int64("item.id", result.ID))
	return result, nil
}

func (s *Service) RemoveItem(ctx context.Context, itemID int64) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.RemoveItem", attribute.Int64("item.id", itemID))
	defer span.End()

	s.logInfo(ctx, "removing order item", slog.Int64("item.id", itemID))
	result, err := s.inner.RemoveItem(ctx, itemID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove order item", slog.Int64("item.id", itemID))
	}
	s.metrics.recordStockMoved(ctx, result.Quantity)
	s.logInfo(ctx, "order item removed", slog.Int64("item.id", result.ID))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersDeleted metric.Int64Counter
	stockMoved    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	stockMoved, _ := m.Int64Counter("orders.service.stock_moved", metric.WithDescription("Net stock units moved by item mutations"))
	return serviceMetrics{
		ordersCreated: ordersCreated,
		ordersDeleted: ordersDeleted,
		stockMoved:    stockMoved,
	}
}

func (m serviceMetrics) recordOrderCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordOrderDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func (m serviceMetrics) recordStockMoved(ctx context.Context, delta int) {
	addCounter(ctx, m.stockMoved, int64(delta))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
