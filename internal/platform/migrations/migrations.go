// Package migrations owns the relational schema for every bounded context.
// Adapters never automigrate on their own; cmd/api (and the integration
// tests) call Run once at startup.
package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for all bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&clientRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&deliveryRecord{},
		&userRecord{},
		&refreshTokenRecord{},
	)
}

// Catalog schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name;index"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (categoryRecord) TableName() string { return "categories" }

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

// Client schema mirrors the clients Postgres adapter.
type clientRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Name      string    `gorm:"column:name;index"`
	Phone     string    `gorm:"column:phone"`
	Address   string    `gorm:"column:address"`
	Company   string    `gorm:"column:company"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (clientRecord) TableName() string { return "clients" }

// Order schema mirrors the orders Postgres adapter.
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

// Delivery schema mirrors the deliveries Postgres adapter.
type deliveryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	ProductID   int64     `gorm:"column:product_id;index"`
	Quantity    int       `gorm:"column:quantity"`
	Note        string    `gorm:"column:note"`
	DeliveredAt time.Time `gorm:"column:delivered_at;index"`
}

func (deliveryRecord) TableName() string { return "deliveries" }

// User plus refresh-token schema mirror the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

type refreshTokenRecord struct {
	Token     string    `gorm:"primaryKey;column:token"`
	UserID    int64     `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (refreshTokenRecord) TableName() string { return "refresh_tokens" }
