package ports

import (
	"context"
	"errors"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
)

var (
	// ErrNoStatusHistory means a shipment has no status records. Because the
	// initial record is created with the shipment, this signals a data-level
	// inconsistency and propagates as not-found.
	ErrNoStatusHistory = errors.New("no status records for shipment")
	// ErrCacheMiss is returned by StatusCache reads when the key is absent.
	ErrCacheMiss = errors.New("status cache miss")
)

// StatusRepository is the contract of the durable status store. The cached
// decorator implements the same interface, so callers never know whether a
// read was served from the cache.
type StatusRepository interface {
	// CreateInitialStatus appends the "En espera" record a shipment is born with.
	CreateInitialStatus(ctx context.Context, shipmentID, userID int64) error
	CreateStatus(ctx context.Context, record *domain.StatusRecord) error
	// GetLatestStatus returns the newest record, or ErrNoStatusHistory.
	GetLatestStatus(ctx context.Context, shipmentID int64) (*domain.StatusRecord, error)
	// GetStatusHistory returns records ordered newest first.
	GetStatusHistory(ctx context.Context, shipmentID int64) ([]*domain.StatusRecord, error)
}

// StatusCache is the ephemeral key-value layer over status reads, keyed by
// tracking code. It holds no authority: callers must treat every error other
// than a hit as a miss and fall back to the store.
type StatusCache interface {
	SetLatestStatus(ctx context.Context, trackingCode string, record *domain.StatusRecord) error
	GetLatestStatus(ctx context.Context, trackingCode string) (*domain.StatusRecord, error)
	SetStatusHistory(ctx context.Context, trackingCode string, history []*domain.StatusRecord) error
	GetStatusHistory(ctx context.Context, trackingCode string) ([]*domain.StatusRecord, error)
	// Invalidate removes both entries for the tracking code.
	Invalidate(ctx context.Context, trackingCode string) error
}
