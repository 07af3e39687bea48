// Package directory adapts the users repository to the read-only lookup the
// shipments context needs for notification delivery.
package directory

import (
	"context"
	"errors"

	shipmentports "github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	"github.com/envioslab/shipment-api/internal/domains/users/ports"
)

var _ shipmentports.UserDirectory = (*UserDirectory)(nil)

// UserDirectory resolves owner emails from the users store.
type UserDirectory struct {
	users ports.UserRepository
}

func New(users ports.UserRepository) *UserDirectory {
	return &UserDirectory{users: users}
}

func (d *UserDirectory) FindEmail(ctx context.Context, userID int64) (string, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return "", shipmentports.ErrUserNotFound
		}
		return "", err
	}
	return user.Email, nil
}
