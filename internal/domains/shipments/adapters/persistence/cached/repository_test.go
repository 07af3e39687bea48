package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

type countingStore struct {
	latest        *domain.StatusRecord
	history       []*domain.StatusRecord
	latestReads   int
	historyReads  int
	createdStatus []*domain.StatusRecord
}

func (s *countingStore) CreateInitialStatus(_ context.Context, shipmentID, userID int64) error {
	s.createdStatus = append(s.createdStatus, &domain.StatusRecord{
		ShipmentID: shipmentID, Status: domain.StatusPending, CreatedBy: userID,
	})
	return nil
}

func (s *countingStore) CreateStatus(_ context.Context, record *domain.StatusRecord) error {
	s.createdStatus = append(s.createdStatus, record)
	return nil
}

func (s *countingStore) GetLatestStatus(_ context.Context, _ int64) (*domain.StatusRecord, error) {
	s.latestReads++
	if s.latest == nil {
		return nil, ports.ErrNoStatusHistory
	}
	return s.latest, nil
}

func (s *countingStore) GetStatusHistory(_ context.Context, _ int64) ([]*domain.StatusRecord, error) {
	s.historyReads++
	return s.history, nil
}

type countingCache struct {
	latest       map[string]*domain.StatusRecord
	history      map[string][]*domain.StatusRecord
	readErr      error
	writeErr     error
	sets         int
	invalidated  []string
	invalidErr   error
	historyReads int
}

func newCountingCache() *countingCache {
	return &countingCache{
		latest:  map[string]*domain.StatusRecord{},
		history: map[string][]*domain.StatusRecord{},
	}
}

func (c *countingCache) SetLatestStatus(_ context.Context, code string, record *domain.StatusRecord) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.sets++
	c.latest[code] = record
	return nil
}

func (c *countingCache) GetLatestStatus(_ context.Context, code string) (*domain.StatusRecord, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if record, ok := c.latest[code]; ok {
		return record, nil
	}
	return nil, ports.ErrCacheMiss
}

func (c *countingCache) SetStatusHistory(_ context.Context, code string, history []*domain.StatusRecord) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.sets++
	c.history[code] = history
	return nil
}

func (c *countingCache) GetStatusHistory(_ context.Context, code string) ([]*domain.StatusRecord, error) {
	c.historyReads++
	if c.readErr != nil {
		return nil, c.readErr
	}
	if history, ok := c.history[code]; ok {
		return history, nil
	}
	return nil, ports.ErrCacheMiss
}

func (c *countingCache) Invalidate(_ context.Context, code string) error {
	if c.invalidErr != nil {
		return c.invalidErr
	}
	c.invalidated = append(c.invalidated, code)
	delete(c.latest, code)
	delete(c.history, code)
	return nil
}

type staticShipments struct {
	shipment *domain.Shipment
	err      error
}

func (s *staticShipments) Create(_ context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	return shipment, nil
}

func (s *staticShipments) GetByID(_ context.Context, _ int64) (*domain.Shipment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shipment, nil
}

func (s *staticShipments) GetByTrackingCode(_ context.Context, _ string) (*domain.Shipment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shipment, nil
}

func (s *staticShipments) List(_ context.Context) ([]*domain.Shipment, error) {
	return []*domain.Shipment{s.shipment}, nil
}

func (s *staticShipments) FindByStatus(_ context.Context, _ domain.Status) ([]*domain.Shipment, error) {
	return []*domain.Shipment{s.shipment}, nil
}

func newCachedFixture() (*StatusRepository, *countingStore, *countingCache) {
	store := &countingStore{
		latest: &domain.StatusRecord{ID: 2, ShipmentID: 1, Status: domain.StatusInTransit, Timestamp: time.Now()},
		history: []*domain.StatusRecord{
			{ID: 2, ShipmentID: 1, Status: domain.StatusInTransit},
			{ID: 1, ShipmentID: 1, Status: domain.StatusPending},
		},
	}
	cache := newCountingCache()
	shipments := &staticShipments{shipment: &domain.Shipment{ID: 1, TrackingCode: "AB12CD34"}}
	return NewStatusRepository(store, shipments, cache), store, cache
}

func TestGetLatestStatus_MissPopulatesThenHits(t *testing.T) {
	repo, store, cache := newCachedFixture()

	record, err := repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInTransit, record.Status)
	require.Equal(t, 1, store.latestReads)
	require.Equal(t, 1, cache.sets)

	record, err = repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInTransit, record.Status)
	require.Equal(t, 1, store.latestReads, "a cache hit must not touch the store")
}

func TestGetLatestStatus_CacheFailureFallsBackToStore(t *testing.T) {
	repo, store, cache := newCachedFixture()
	cache.readErr = errors.New("connection refused")

	record, err := repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInTransit, record.Status)
	require.Equal(t, 1, store.latestReads)
	require.Zero(t, cache.sets)
}

func TestGetLatestStatus_PopulateFailureStillReturnsRecord(t *testing.T) {
	repo, store, cache := newCachedFixture()
	cache.writeErr = errors.New("connection refused")

	record, err := repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInTransit, record.Status)
	require.Equal(t, 1, store.latestReads)
}

func TestGetLatestStatus_UnknownShipmentReadsStore(t *testing.T) {
	store := &countingStore{latest: &domain.StatusRecord{ID: 1, ShipmentID: 1, Status: domain.StatusPending}}
	cache := newCountingCache()
	repo := NewStatusRepository(store, &staticShipments{err: ports.ErrShipmentNotFound}, cache)

	record, err := repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, record.Status)
	require.Zero(t, cache.sets)
}

func TestGetStatusHistory_MissPopulatesThenHits(t *testing.T) {
	repo, store, cache := newCachedFixture()

	history, err := repo.GetStatusHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 1, store.historyReads)

	history, err = repo.GetStatusHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 1, store.historyReads)
	require.Equal(t, 2, cache.historyReads)
}

func TestGetStatusHistory_EmptyHistoryNotCached(t *testing.T) {
	repo, store, cache := newCachedFixture()
	store.history = nil

	history, err := repo.GetStatusHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, history)
	require.Zero(t, cache.sets)
}

func TestCreateStatus_InvalidatesBothEntries(t *testing.T) {
	repo, store, cache := newCachedFixture()

	_, err := repo.GetLatestStatus(context.Background(), 1)
	require.NoError(t, err)
	_, err = repo.GetStatusHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cache.latest, 1)
	require.Len(t, cache.history, 1)

	err = repo.CreateStatus(context.Background(), &domain.StatusRecord{ShipmentID: 1, Status: domain.StatusDelivered})
	require.NoError(t, err)
	require.Equal(t, []string{"AB12CD34"}, cache.invalidated)
	require.Empty(t, cache.latest)
	require.Empty(t, cache.history)
	require.Len(t, store.createdStatus, 1)
}

func TestCreateInitialStatus_Invalidates(t *testing.T) {
	repo, store, cache := newCachedFixture()

	err := repo.CreateInitialStatus(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, []string{"AB12CD34"}, cache.invalidated)
	require.Len(t, store.createdStatus, 1)
	require.Equal(t, domain.StatusPending, store.createdStatus[0].Status)
}

func TestCreateStatus_InvalidationFailureAbsorbed(t *testing.T) {
	repo, store, cache := newCachedFixture()
	cache.invalidErr = errors.New("connection refused")

	err := repo.CreateStatus(context.Background(), &domain.StatusRecord{ShipmentID: 1, Status: domain.StatusDelivered})
	require.NoError(t, err)
	require.Len(t, store.createdStatus, 1)
}
