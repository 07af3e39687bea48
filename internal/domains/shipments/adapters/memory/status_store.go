package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.StatusRepository = (*StatusStore)(nil)

// StatusStore is the in-memory durable status history.
type StatusStore struct {
	mu      sync.Mutex
	records map[int64][]*domain.StatusRecord
	nextID  int64
}

func NewStatusStore() *StatusStore {
	return &StatusStore{records: map[int64][]*domain.StatusRecord{}}
}

func (s *StatusStore) CreateInitialStatus(ctx context.Context, shipmentID, userID int64) error {
	return s.CreateStatus(ctx, &domain.StatusRecord{
		ShipmentID: shipmentID,
		Status:     domain.StatusPending,
		Comment:    "Envío registrado en el sistema",
		CreatedBy:  userID,
	})
}

func (s *StatusStore) CreateStatus(_ context.Context, record *domain.StatusRecord) error {
	if record == nil {
		return errors.New("status record is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *record
	s.nextID++
	clone.ID = s.nextID
	if clone.Timestamp.IsZero() {
		clone.Timestamp = time.Now()
	}
	s.records[clone.ShipmentID] = append(s.records[clone.ShipmentID], &clone)
	return nil
}

func (s *StatusStore) GetLatestStatus(_ context.Context, shipmentID int64) (*domain.StatusRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.records[shipmentID]
	if len(history) == 0 {
		return nil, ports.ErrNoStatusHistory
	}
	latest := history[0]
	for _, record := range history[1:] {
		if record.Timestamp.After(latest.Timestamp) || (record.Timestamp.Equal(latest.Timestamp) && record.ID > latest.ID) {
			latest = record
		}
	}
	clone := *latest
	return &clone, nil
}

func (s *StatusStore) GetStatusHistory(_ context.Context, shipmentID int64) ([]*domain.StatusRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.records[shipmentID]
	list := make([]*domain.StatusRecord, 0, len(history))
	for _, record := range history {
		clone := *record
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].ID > list[j].ID
		}
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}
