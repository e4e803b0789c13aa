// Package postgres persists users and refresh tokens in PostgreSQL using
// GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func translateUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	default:
		return err
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	record := toUserRecord(user)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateUserError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, translateUserError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var record userRecord
	err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&record).Error
	if err != nil {
		return nil, translateUserError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) ListUsers(ctx context.Context, filter ports.Filter) ([]*domain.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&userRecord{})
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("email ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []userRecord
	err := query.
		Order("id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]*domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, record.toDomain())
	}
	return users, total, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	var record userRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			return translateUserError(err)
		}
		return tx.Delete(&userRecord{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) StoreToken(ctx context.Context, token *domain.RefreshToken) error {
	record := refreshTokenRecord{
		Token:     token.Token,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) GetToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var record refreshTokenRecord
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrTokenNotFound
		}
		return nil, err
	}
	return &domain.RefreshToken{
		Token:     record.Token,
		UserID:    record.UserID,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (r *Repository) DeleteToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&refreshTokenRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrTokenNotFound
	}
	return nil
}

func (r *Repository) DeleteUserTokens(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&refreshTokenRecord{}).Error
}

func toUserRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}
