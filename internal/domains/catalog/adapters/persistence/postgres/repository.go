package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in PostgreSQL using GORM.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed repository. Caller manages
// DB lifecycle and schema migration.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Title         string          `gorm:"column:title"`
	SKU           string          `gorm:"column:sku;uniqueIndex"`
	Description   string          `gorm:"column:description"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	CategoryIDs   pq.Int64Array   `gorm:"column:category_ids;type:bigint[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateProductError(err)
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translateProductError(err)
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	record := toProductRecord(product)
	result := r.db.WithContext(ctx).Model(&productRecord{ID: record.ID}).Updates(map[string]any{
		"title":          record.Title,
		"sku":            record.SKU,
		"description":    record.Description,
		"stock_quantity": record.StockQuantity,
		"price":          record.Price,
		"category_ids":   record.CategoryIDs,
		"updated_at":     gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, translateProductError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// DeleteCascade removes the product's order items, deletes any order left
// without items, then deletes the product, all inside one transaction.
func (r *ProductRepository) DeleteCascade(ctx context.Context, id int64) (*domain.Product, error) {
	var deleted *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record productRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return translateProductError(err)
		}

		var orderIDs []int64
		if err := tx.Raw("SELECT DISTINCT order_id FROM order_items WHERE product_id = ?", id).
			Scan(&orderIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM order_items WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Exec(
				"DELETE FROM orders WHERE id IN ? AND NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)",
				orderIDs,
			).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&productRecord{}, id).Error; err != nil {
			return err
		}
		deleted = record.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&productRecord{})
	if q := filter.Query; q != "" {
		like := "%" + q + "%"
		query = query.Where("title ILIKE ? OR sku ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if filter.CategoryID != 0 {
		query = query.Where("? = ANY(category_ids)", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []productRecord
	if err := query.Order("id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func translateProductError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	default:
		return err
	}
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Title:         product.Title,
		SKU:           product.SKU,
		Description:   product.Description,
		StockQuantity: product.StockQuantity,
		Price:         product.Price,
		CategoryIDs:   pq.Int64Array(product.CategoryIDs),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Title:         r.Title,
		SKU:           r.SKU,
		Description:   r.Description,
		StockQuantity: r.StockQuantity,
		Price:         r.Price,
		CategoryIDs:   []int64(r.CategoryIDs),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
