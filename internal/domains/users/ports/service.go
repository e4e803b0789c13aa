package ports

import (
	"context"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID int64
	Email  string
	Role   domain.Role
}

// Service exposes account management and authentication.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*Claims, error)

	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter Filter) ([]*domain.User, int64, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}
