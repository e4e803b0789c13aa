// Package postgres persists deliveries in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists deliveries. Stock movements ride in the same
// transaction as the record they compensate; the stock guard is a
// conditional UPDATE so the non-negative invariant holds under concurrency.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type deliveryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	ProductID   int64     `gorm:"column:product_id;index"`
	Quantity    int       `gorm:"column:quantity"`
	Note        string    `gorm:"column:note"`
	DeliveredAt time.Time `gorm:"column:delivered_at;index"`
}

func (deliveryRecord) TableName() string { return "deliveries" }

type stockRow struct {
	ID            int64  `gorm:"primaryKey;column:id"`
	Title         string `gorm:"column:title"`
	StockQuantity int    `gorm:"column:stock_quantity"`
}

func (stockRow) TableName() string { return "products" }

func (r *Repository) Create(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	record := toRecord(delivery)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return adjustStock(tx, record.ProductID, record.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Delivery, error) {
	var record deliveryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Delivery, int64, error) {
	query := r.db.WithContext(ctx).Model(&deliveryRecord{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []deliveryRecord
	err := query.
		Order("delivered_at DESC, id DESC").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	deliveries := make([]*domain.Delivery, 0, len(records))
	for _, record := range records {
		deliveries = append(deliveries, record.toDomain())
	}
	return deliveries, total, nil
}

func (r *Repository) Update(ctx context.Context, old, updated *domain.Delivery) (*domain.Delivery, error) {
	record := toRecord(updated)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&deliveryRecord{}).Where("id = ?", old.ID).Updates(map[string]any{
			"product_id": record.ProductID,
			"quantity":   record.Quantity,
			"note":       record.Note,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if old.ProductID == updated.ProductID && old.Quantity == updated.Quantity {
			return nil
		}
		if err := adjustStock(tx, old.ProductID, -old.Quantity); err != nil {
			return err
		}
		return adjustStock(tx, updated.ProductID, updated.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, old.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) (*domain.Delivery, error) {
	var record deliveryRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if err := adjustStock(tx, record.ProductID, -record.Quantity); err != nil {
			return err
		}
		return tx.Delete(&deliveryRecord{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*ports.ProductRef, error) {
	var row stockRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return &ports.ProductRef{ID: row.ID, Title: row.Title}, nil
}

// adjustStock applies a signed stock delta. Decrements carry a guard in the
// WHERE clause; zero rows affected means the product is missing or short.
func adjustStock(tx *gorm.DB, productID int64, delta int) error {
	query := tx.Model(&stockRow{}).Where("id = ?", productID)
	if delta < 0 {
		query = query.Where("stock_quantity >= ?", -delta)
	}
	result := query.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&stockRow{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrProductNotFound
		}
		return ports.ErrInsufficientStock
	}
	return nil
}

func toRecord(delivery *domain.Delivery) deliveryRecord {
	return deliveryRecord{
		ID:          delivery.ID,
		ProductID:   delivery.ProductID,
		Quantity:    delivery.Quantity,
		Note:        delivery.Note,
		DeliveredAt: delivery.DeliveredAt,
	}
}

func (r deliveryRecord) toDomain() *domain.Delivery {
	return &domain.Delivery{
		ID:          r.ID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Note:        r.Note,
		DeliveredAt: r.DeliveredAt,
	}
}
