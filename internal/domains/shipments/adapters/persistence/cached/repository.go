// Package cached decorates the durable status repository with a
// read-through/write-through cache keyed by tracking code. The cache never
// owns correctness: every cache-path failure degrades to a direct store read
// and write-side invalidation failures are logged, not propagated.
package cached

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.StatusRepository = (*StatusRepository)(nil)

// StatusRepository composes the durable store, the cache, and a shipment
// lookup used to resolve ids to tracking codes.
type StatusRepository struct {
	store     ports.StatusRepository
	shipments ports.ShipmentRepository
	cache     ports.StatusCache
	logger    *slog.Logger
}

// Option customizes the decorator.
type Option func(*StatusRepository)

// WithLogger injects the slog logger used for absorbed cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *StatusRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewStatusRepository wires the caching decorator.
func NewStatusRepository(store ports.StatusRepository, shipments ports.ShipmentRepository, cache ports.StatusCache, opts ...Option) *StatusRepository {
	r := &StatusRepository{
		store:     store,
		shipments: shipments,
		cache:     cache,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// CreateInitialStatus writes through to the store and invalidates both cache
// entries for the shipment's tracking code.
func (r *StatusRepository) CreateInitialStatus(ctx context.Context, shipmentID, userID int64) error {
	if err := r.store.CreateInitialStatus(ctx, shipmentID, userID); err != nil {
		return err
	}
	r.invalidate(ctx, shipmentID)
	return nil
}

// CreateStatus writes through to the store and invalidates both cache
// entries for the shipment's tracking code.
func (r *StatusRepository) CreateStatus(ctx context.Context, record *domain.StatusRecord) error {
	if err := r.store.CreateStatus(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.ShipmentID)
	return nil
}

// GetLatestStatus serves the newest record from the cache when present. A
// cache hit must not touch the store at all; a miss reads the store and
// populates the cache best-effort. Any cache-path failure falls back to a
// direct store read.
func (r *StatusRepository) GetLatestStatus(ctx context.Context, shipmentID int64) (*domain.StatusRecord, error) {
	code, err := r.trackingCode(ctx, shipmentID)
	if err != nil || code == "" {
		return r.store.GetLatestStatus(ctx, shipmentID)
	}

	cached, err := r.cache.GetLatestStatus(ctx, code)
	if err == nil {
		r.logger.Debug("cache hit for shipment status", slog.String("tracking_code", code))
		return cached, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		r.logger.Warn("status cache read failed, reading store directly",
			slog.String("tracking_code", code), slog.String("error", err.Error()))
		return r.store.GetLatestStatus(ctx, shipmentID)
	}

	r.logger.Debug("cache miss for shipment status", slog.String("tracking_code", code))
	record, err := r.store.GetLatestStatus(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetLatestStatus(ctx, code, record); err != nil {
		r.logger.Warn("failed to populate status cache",
			slog.String("tracking_code", code), slog.String("error", err.Error()))
	}
	return record, nil
}

// GetStatusHistory applies the same read-through pattern to the full,
// newest-first history list.
func (r *StatusRepository) GetStatusHistory(ctx context.Context, shipmentID int64) ([]*domain.StatusRecord, error) {
	code, err := r.trackingCode(ctx, shipmentID)
	if err != nil || code == "" {
		return r.store.GetStatusHistory(ctx, shipmentID)
	}

	cached, err := r.cache.GetStatusHistory(ctx, code)
	if err == nil {
		r.logger.Debug("cache hit for shipment history", slog.String("tracking_code", code))
		return cached, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		r.logger.Warn("history cache read failed, reading store directly",
			slog.String("tracking_code", code), slog.String("error", err.Error()))
		return r.store.GetStatusHistory(ctx, shipmentID)
	}

	r.logger.Debug("cache miss for shipment history", slog.String("tracking_code", code))
	history, err := r.store.GetStatusHistory(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := r.cache.SetStatusHistory(ctx, code, history); err != nil {
			r.logger.Warn("failed to populate history cache",
				slog.String("tracking_code", code), slog.String("error", err.Error()))
		}
	}
	return history, nil
}

func (r *StatusRepository) trackingCode(ctx context.Context, shipmentID int64) (string, error) {
	shipment, err := r.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return "", err
	}
	return shipment.TrackingCode, nil
}

// invalidate drops both cache entries after a store write. The write already
// succeeded, so failures here are logged and swallowed.
func (r *StatusRepository) invalidate(ctx context.Context, shipmentID int64) {
	code, err := r.trackingCode(ctx, shipmentID)
	if err != nil || code == "" {
		if err != nil {
			r.logger.Warn("skipping cache invalidation, shipment lookup failed",
				slog.Int64("shipment.id", shipmentID), slog.String("error", err.Error()))
		}
		return
	}
	if err := r.cache.Invalidate(ctx, code); err != nil {
		r.logger.Warn("failed to invalidate status cache",
			slog.String("tracking_code", code), slog.String("error", err.Error()))
	}
}
