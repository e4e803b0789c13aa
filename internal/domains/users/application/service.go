package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

// Service handles account management and authentication. Access tokens are
// stateless JWTs; refresh tokens are opaque and stored so they can be
// revoked.
type Service struct {
	repo   ports.Repository
	hasher *PasswordHasher
	tokens *TokenManager
	now    func() time.Time
}

func NewService(repo ports.Repository, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, now: time.Now}
}

// WithClock overrides the refresh-token expiry clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}

	user := &domain.User{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Name:      strings.TrimSpace(input.Name),
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	return s.repo.CreateUser(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	stored, err := s.repo.GetToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.Expired(s.now()) {
		_ = s.repo.DeleteToken(ctx, refreshToken)
		return nil, ErrExpiredToken
	}
	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. Unknown tokens are fine: the
// caller's goal is already met.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.repo.DeleteToken(ctx, refreshToken)
	if errors.Is(err, ports.ErrTokenNotFound) {
		return nil
	}
	return err
}

func (s *Service) Authenticate(_ context.Context, accessToken string) (*ports.Claims, error) {
	user, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	return &ports.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.User, int64, error) {
	return s.repo.ListUsers(ctx, filter)
}

// Delete removes the account and revokes all its refresh tokens.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteUserTokens(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	refresh := &domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.tokens.RefreshTokenTTL()),
		CreatedAt: s.now(),
	}
	if err := s.repo.StoreToken(ctx, refresh); err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresIn:    s.tokens.AccessTokenTTLSeconds(),
	}, nil
}

var _ ports.Service = (*Service)(nil)
