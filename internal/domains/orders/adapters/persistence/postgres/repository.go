package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/orders/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Stock movements ride
// in the same transaction as the row they compensate; the stock guard is a
// conditional UPDATE so the non-negative invariant holds under concurrency.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	BuyerID         int64     `gorm:"column:buyer_id;index:idx_orders_buyer_status"`
	ShippingAddress string    `gorm:"column:shipping_address"`
	BillingAddress  string    `gorm:"column:billing_address"`
	Status          string    `gorm:"column:status;type:varchar(32);index:idx_orders_buyer_status"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// stockRow is the slice of the products table the order workflow touches.
type stockRow struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Title         string          `gorm:"column:title"`
	Price         decimal.Decimal `gorm:"column:price"`
	StockQuantity int             `gorm:"column:stock_quantity"`
}

func (stockRow) TableName() string { return "products" }

// buyerRow is the slice of the clients table the order workflow reads.
type buyerRow struct {
	ID    int64  `gorm:"primaryKey;column:id"`
	Name  string `gorm:"column:name"`
	Email string `gorm:"column:email"`
}

func (buyerRow) TableName() string { return "clients" }

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	record := orderRecord{
		BuyerID:         order.BuyerID,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i := range order.Items {
			item := orderItemRecord{
				OrderID:   record.ID,
				ProductID: order.Items[i].ProductID,
				Quantity:  order.Items[i].Quantity,
				UnitPrice: order.Items[i].UnitPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			if err := adjustStock(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, record.ID)
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	items, err := r.itemsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *Repository) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&orderRecord{}).
		Joins("LEFT JOIN clients ON clients.id = orders.buyer_id")
	if filter.Status != "" {
		query = query.Where("orders.status = ?", string(filter.Status))
	}
	if filter.BuyerID != 0 {
		query = query.Where("orders.buyer_id = ?", filter.BuyerID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		if id, err := strconv.ParseInt(q, 10, 64); err == nil {
			query = query.Where("orders.id = ?", id)
		} else {
			like := "%" + q + "%"
			query = query.Where("clients.name ILIKE ? OR clients.email ILIKE ?", like, like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type joinedRow struct {
		orderRecord
		BuyerName  string `gorm:"column:buyer_name"`
		BuyerEmail string `gorm:"column:buyer_email"`
	}
	var rows []joinedRow
	if err := query.
		Select("orders.*, clients.name AS buyer_name, clients.email AS buyer_email").
		Order("orders.id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	orderIDs := make([]int64, 0, len(rows))
	for i := range rows {
		orderIDs = append(orderIDs, rows[i].ID)
	}
	itemsByOrder, err := r.itemsByOrder(ctx, orderIDs)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*ports.OrderSummary, 0, len(rows))
	for i := range rows {
		order := rows[i].orderRecord.toDomain(itemsByOrder[rows[i].ID])
		summaries = append(summaries, &ports.OrderSummary{
			Order:       *order,
			BuyerName:   rows[i].BuyerName,
			BuyerEmail:  rows[i].BuyerEmail,
			ItemCount:   order.ItemCount(),
			TotalAmount: order.TotalAmount(),
		})
	}
	return summaries, total, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	result := r.db.WithContext(ctx).Model(&orderRecord{ID: id}).
		UpdateColumn("status", string(status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetOrder(ctx, id)
}

func (r *Repository) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&orderRecord{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) GetItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	var record orderItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrItemNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) InsertItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	record := orderItemRecord{
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return adjustStock(tx, record.ProductID, -record.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) UpdateItem(ctx context.Context, old, updated *domain.OrderItem) (*domain.OrderItem, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderItemRecord{ID: old.ID}).Updates(map[string]any{
			"product_id": updated.ProductID,
			"quantity":   updated.Quantity,
			"unit_price": updated.UnitPrice,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrItemNotFound
		}
		if err := adjustStock(tx, old.ProductID, old.Quantity); err != nil {
			return err
		}
		return adjustStock(tx, updated.ProductID, -updated.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return r.GetItem(ctx, old.ID)
}

func (r *Repository) DeleteItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	item, err := r.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&orderItemRecord{}, id).Error; err != nil {
			return err
		}
		return adjustStock(tx, item.ProductID, item.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*ports.ProductRef, error) {
	var row stockRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return &ports.ProductRef{ID: row.ID, Title: row.Title, Price: row.Price, StockQuantity: row.StockQuantity}, nil
}

func (r *Repository) GetBuyer(ctx context.Context, id int64) (*ports.BuyerRef, error) {
	var row buyerRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrBuyerNotFound
		}
		return nil, err
	}
	return &ports.BuyerRef{ID: row.ID, Name: row.Name, Email: row.Email}, nil
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

func (r *Repository) itemsOf(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	byOrder, err := r.itemsByOrder(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	return byOrder[orderID], nil
}

func (r *Repository) itemsByOrder(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	result := map[int64][]domain.OrderItem{}
	if len(orderIDs) == 0 {
		return result, nil
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		item := records[i].toDomain()
		result[records[i].OrderID] = append(result[records[i].OrderID], *item)
	}
	return result, nil
}

func (r orderRecord) toDomain(items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		BuyerID:         r.BuyerID,
		ShippingAddress: r.ShippingAddress,
		BillingAddress:  r.BillingAddress,
		Status:          domain.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		Items:           items,
	}
}

func (r orderItemRecord) toDomain() *domain.OrderItem {
	return &domain.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
}
