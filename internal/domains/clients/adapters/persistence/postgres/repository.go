package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/clients/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists clients in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	record := toRecord(client)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var record clientRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	result := r.db.WithContext(ctx).Model(&clientRecord{ID: client.ID}).Updates(map[string]any{
		"email":   client.Email,
		"name":    client.Name,
		"phone":   client.Phone,
		"address": client.Address,
		"company": client.Company,
	})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, client.ID)
}

// Delete removes a client inside one transaction. The order-count guard
// runs in the same transaction as the delete so a concurrent order creation
// cannot slip between check and removal.
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.Client, error) {
	var client *domain.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record clientRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return translateError(err)
		}
		var count int64
		if err := tx.Table("orders").Where("buyer_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ports.ErrHasOrders
		}
		if err := tx.Delete(&clientRecord{}, id).Error; err != nil {
			return err
		}
		client = record.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&clientRecord{})
	if q := filter.Query; q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR company ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []clientRecord
	if err := query.Order("id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]*domain.Client, 0, len(records))
	for i := range records {
		clients = append(clients, records[i].toDomain())
	}
	return clients, total, nil
}

func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	default:
		return err
	}
}

func toRecord(client *domain.Client) clientRecord {
	return clientRecord{
		ID:        client.ID,
		Email:     client.Email,
		Name:      client.Name,
		Phone:     client.Phone,
		Address:   client.Address,
		Company:   client.Company,
		CreatedAt: client.CreatedAt,
	}
}

func (r clientRecord) toDomain() *domain.Client {
	return &domain.Client{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		Company:   r.Company,
		CreatedAt: r.CreatedAt,
	}
}
