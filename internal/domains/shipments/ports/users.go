package ports

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// UserDirectory resolves shipment owners for notification delivery. It is
// the only thing the shipments context needs from the users context.
type UserDirectory interface {
	FindEmail(ctx context.Context, userID int64) (string, error)
}
