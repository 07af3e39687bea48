package ports

import (
	"context"
	"errors"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is raised by the store when the unique index on the email
	// column rejects an insert.
	ErrEmailTaken = errors.New("email is already registered")
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
