// Package memory provides in-memory user and refresh-token persistence
// used for tests and as a fallback when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	"github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	tokens map[string]*domain.RefreshToken
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{
		users:  map[int64]*domain.User{},
		tokens: map[string]*domain.RefreshToken{},
	}
}

func (r *Repository) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, ports.ErrConflict
		}
	}
	clone := *user
	r.nextID++
	clone.ID = r.nextID
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ListUsers(_ context.Context, filter ports.Filter) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	matched := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Email), query) &&
			!strings.Contains(strings.ToLower(user.Name), query) {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := filter.Page.Offset()
	if start > len(matched) {
		return []*domain.User{}, total, nil
	}
	end := start + filter.Page.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *Repository) DeleteUser(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.users, id)
	clone := *user
	return &clone, nil
}

func (r *Repository) StoreToken(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *Repository) GetToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.tokens[token]
	if !ok {
		return nil, ports.ErrTokenNotFound
	}
	clone := *stored
	return &clone, nil
}

func (r *Repository) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return ports.ErrTokenNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *Repository) DeleteUserTokens(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, stored := range r.tokens {
		if stored.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}
