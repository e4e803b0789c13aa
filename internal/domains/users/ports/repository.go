package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrConflict      = errors.New("user email already registered")
	ErrTokenNotFound = errors.New("refresh token not found")
)

// Filter narrows user listings.
type Filter struct {
	Query string
	Page  pagination.Request
}

// Repository persists users and their refresh tokens.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, filter Filter) ([]*domain.User, int64, error)
	DeleteUser(ctx context.Context, id int64) (*domain.User, error)

	StoreToken(ctx context.Context, token *domain.RefreshToken) error
	GetToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteUserTokens(ctx context.Context, userID int64) error
}
