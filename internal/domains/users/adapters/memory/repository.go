// Package memory provides an in-memory user store for tests and DSN-less boots.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
	"github.com/envioslab/shipment-api/internal/domains/users/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository keeps accounts in a map guarded by a mutex.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[int64]*domain.User{}}
}

// Seed registers accounts, keyed by their IDs.
func (r *UserRepository) Seed(users ...*domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range users {
		clone := *user
		r.users[clone.ID] = &clone
		if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.users {
		if existing.Email == email {
			return nil, ports.ErrEmailTaken
		}
	}
	clone := *user
	clone.Email = email
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.users[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrUserNotFound
}
