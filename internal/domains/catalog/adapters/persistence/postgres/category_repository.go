package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name;index"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (categoryRecord) TableName() string { return "categories" }

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	record := toCategoryRecord(category)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateProductError(err)
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translateProductError(err)
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	result := r.db.WithContext(ctx).Model(&categoryRecord{ID: category.ID}).Updates(map[string]any{
		"name":        category.Name,
		"description": category.Description,
	})
	if result.Error != nil {
		return nil, translateProductError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&categoryRecord{}, id).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter ports.CategoryFilter) ([]*domain.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&categoryRecord{})
	if q := filter.Query; q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []categoryRecord
	if err := query.Order("id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, records[i].toDomain())
	}
	return categories, total, nil
}

func (r *CategoryRepository) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&categoryRecord{}).
		Distinct("id").
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

func toCategoryRecord(category *domain.Category) categoryRecord {
	return categoryRecord{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}
