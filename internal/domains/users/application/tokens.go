package application

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenConfig holds signing parameters for access tokens.
type TokenConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// DefaultTokenConfig returns sane development defaults. The secret must be
// overridden from configuration in any real deployment.
func DefaultTokenConfig(secret string) TokenConfig {
	return TokenConfig{
		SecretKey:       secret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "sales-admin-api",
	}
}

type accessClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	config TokenConfig
}

func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{config: config}
}

// Sign mints an access token for the user.
func (m *TokenManager) Sign(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Verify parses an access token and returns the caller's identity.
func (m *TokenManager) Verify(tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &domain.User{ID: claims.UserID, Email: claims.Email, Role: domain.Role(claims.Role)}, nil
}

// AccessTokenTTLSeconds reports the access token lifetime in seconds.
func (m *TokenManager) AccessTokenTTLSeconds() int64 {
	return int64(m.config.AccessTokenTTL.Seconds())
}

// RefreshTokenTTL reports the refresh token lifetime.
func (m *TokenManager) RefreshTokenTTL() time.Duration {
	return m.config.RefreshTokenTTL
}
