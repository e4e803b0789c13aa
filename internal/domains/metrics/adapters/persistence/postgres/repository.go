// Package postgres aggregates metrics with SQL over the orders, order_items
// and clients tables.
package postgres

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/metrics/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var fulfilledStatuses = []string{"PAID", "SHIPPED"}

func (r *Repository) Revenue(ctx context.Context, w ports.Window) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(oi.unit_price * oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status IN ? AND o.created_at >= ? AND o.created_at < ?`,
		fulfilledStatuses, w.Start, w.End,
	).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *Repository) OrderCount(ctx context.Context, w ports.Window) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("orders").
		Where("created_at >= ? AND created_at < ?", w.Start, w.End).
		Count(&count).Error
	return count, err
}

func (r *Repository) NewClients(ctx context.Context, w ports.Window) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("clients").
		Where("created_at >= ? AND created_at < ?", w.Start, w.End).
		Count(&count).Error
	return count, err
}

func (r *Repository) ActiveBuyers(ctx context.Context, w ports.Window) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT buyer_id)
		FROM orders
		WHERE status IN ? AND created_at >= ? AND created_at < ?`,
		fulfilledStatuses, w.Start, w.End,
	).Scan(&count).Error
	return count, err
}
