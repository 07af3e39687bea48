// Package redis implements the shipment status cache over a shared Redis
// client. A circuit breaker shields the request path from a down Redis: once
// the breaker opens, cache calls fail fast and the caller degrades to the
// store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.StatusCache = (*StatusCache)(nil)

// DefaultTTL is how long cached status entries live. Writes also invalidate
// eagerly, so the TTL only bounds staleness after missed invalidations.
const DefaultTTL = 3600 * time.Second

const (
	statusKeyPrefix  = "shipment:status:"
	historyKeyPrefix = "shipment:history:"
)

// statusEntry is the wire form of a cached record. Timestamps round-trip as
// RFC 3339 strings via encoding/json.
type statusEntry struct {
	ID         int64     `json:"id"`
	ShipmentID int64     `json:"shipment_id"`
	Status     string    `json:"status"`
	Comment    string    `json:"comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedBy  int64     `json:"created_by"`
	UserName   string    `json:"user_name,omitempty"`
}

// StatusCache stores latest-status and history entries keyed by tracking code.
type StatusCache struct {
	client  *goredis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

// Option customizes the cache.
type Option func(*StatusCache)

// WithTTL overrides the entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *StatusCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewStatusCache wraps an injected Redis client. The client is constructed
// once at process start and shared by reference.
func NewStatusCache(client *goredis.Client, opts ...Option) *StatusCache {
	c := &StatusCache{
		client: client,
		ttl:    DefaultTTL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "shipment-status-cache",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SetLatestStatus caches the newest record for the tracking code.
func (c *StatusCache) SetLatestStatus(ctx context.Context, trackingCode string, record *domain.StatusRecord) error {
	payload, err := json.Marshal(toEntry(record))
	if err != nil {
		return fmt.Errorf("encode status entry: %w", err)
	}
	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, statusKeyPrefix+trackingCode, payload, c.ttl).Err()
	})
	return err
}

// GetLatestStatus reads the cached newest record, or ErrCacheMiss.
func (c *StatusCache) GetLatestStatus(ctx context.Context, trackingCode string) (*domain.StatusRecord, error) {
	raw, err := c.get(ctx, statusKeyPrefix+trackingCode)
	if err != nil {
		return nil, err
	}
	var entry statusEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode status entry: %w", err)
	}
	return entry.toDomain(), nil
}

// SetStatusHistory caches the newest-first history list for the tracking code.
func (c *StatusCache) SetStatusHistory(ctx context.Context, trackingCode string, history []*domain.StatusRecord) error {
	entries := make([]statusEntry, 0, len(history))
	for _, record := range history {
		entries = append(entries, toEntry(record))
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history entries: %w", err)
	}
	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, historyKeyPrefix+trackingCode, payload, c.ttl).Err()
	})
	return err
}

// GetStatusHistory reads the cached history list, or ErrCacheMiss.
func (c *StatusCache) GetStatusHistory(ctx context.Context, trackingCode string) ([]*domain.StatusRecord, error) {
	raw, err := c.get(ctx, historyKeyPrefix+trackingCode)
	if err != nil {
		return nil, err
	}
	var entries []statusEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history entries: %w", err)
	}
	history := make([]*domain.StatusRecord, 0, len(entries))
	for i := range entries {
		history = append(history, entries[i].toDomain())
	}
	return history, nil
}

// Invalidate deletes both entries for the tracking code.
func (c *StatusCache) Invalidate(ctx context.Context, trackingCode string) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.client.Del(ctx, statusKeyPrefix+trackingCode, historyKeyPrefix+trackingCode).Err()
	})
	return err
}

func (c *StatusCache) get(ctx context.Context, key string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		raw, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			// A miss is a normal outcome, not a breaker failure.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ports.ErrCacheMiss
	}
	return result.([]byte), nil
}

func toEntry(record *domain.StatusRecord) statusEntry {
	return statusEntry{
		ID:         record.ID,
		ShipmentID: record.ShipmentID,
		Status:     string(record.Status),
		Comment:    record.Comment,
		Timestamp:  record.Timestamp,
		CreatedBy:  record.CreatedBy,
		UserName:   record.UserName,
	}
}

func (e statusEntry) toDomain() *domain.StatusRecord {
	return &domain.StatusRecord{
		ID:         e.ID,
		ShipmentID: e.ShipmentID,
		Status:     domain.Status(e.Status),
		Comment:    e.Comment,
		Timestamp:  e.Timestamp,
		CreatedBy:  e.CreatedBy,
		UserName:   e.UserName,
	}
}
