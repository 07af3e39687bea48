package memory

import (
	"context"
	"sync"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.StatusCache = (*StatusCache)(nil)

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e cacheEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// StatusCache is an in-memory stand-in for the Redis status cache. Entries
// expire lazily on read.
type StatusCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	latest    map[string]cacheEntry[*domain.StatusRecord]
	histories map[string]cacheEntry[[]*domain.StatusRecord]
}

func NewStatusCache(ttl time.Duration) *StatusCache {
	return &StatusCache{
		ttl:       ttl,
		latest:    map[string]cacheEntry[*domain.StatusRecord]{},
		histories: map[string]cacheEntry[[]*domain.StatusRecord]{},
	}
}

func (c *StatusCache) SetLatestStatus(_ context.Context, trackingCode string, record *domain.StatusRecord) error {
	if record == nil {
		return nil
	}
	clone := *record
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[trackingCode] = cacheEntry[*domain.StatusRecord]{value: &clone, expiresAt: c.deadline()}
	return nil
}

func (c *StatusCache) GetLatestStatus(_ context.Context, trackingCode string) (*domain.StatusRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.latest[trackingCode]
	if !ok || entry.expired(time.Now()) {
		delete(c.latest, trackingCode)
		return nil, ports.ErrCacheMiss
	}
	clone := *entry.value
	return &clone, nil
}

func (c *StatusCache) SetStatusHistory(_ context.Context, trackingCode string, history []*domain.StatusRecord) error {
	clones := make([]*domain.StatusRecord, 0, len(history))
	for _, record := range history {
		clone := *record
		clones = append(clones, &clone)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.histories[trackingCode] = cacheEntry[[]*domain.StatusRecord]{value: clones, expiresAt: c.deadline()}
	return nil
}

func (c *StatusCache) GetStatusHistory(_ context.Context, trackingCode string) ([]*domain.StatusRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.histories[trackingCode]
	if !ok || entry.expired(time.Now()) {
		delete(c.histories, trackingCode)
		return nil, ports.ErrCacheMiss
	}
	clones := make([]*domain.StatusRecord, 0, len(entry.value))
	for _, record := range entry.value {
		clone := *record
		clones = append(clones, &clone)
	}
	return clones, nil
}

func (c *StatusCache) Invalidate(_ context.Context, trackingCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, trackingCode)
	delete(c.histories, trackingCode)
	return nil
}

func (c *StatusCache) deadline() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}
