// Package memory provides in-memory shipment adapters used by unit tests
// and by DSN-less boots.
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

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

// ShipmentRepository is an in-memory shipment persistence adapter. The
// status store is consulted for status-filtered listings, mirroring the SQL
// join of the Postgres adapter.
type ShipmentRepository struct {
	mu        sync.RWMutex
	shipments map[int64]*domain.Shipment
	statuses  *StatusStore
	nextID    int64
}

func NewShipmentRepository(statuses *StatusStore) *ShipmentRepository {
	return &ShipmentRepository{shipments: map[int64]*domain.Shipment{}, statuses: statuses}
}

func (r *ShipmentRepository) Create(_ context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if shipment == nil {
		return nil, errors.New("shipment is nil")
	}
	clone := *shipment
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.shipments[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *ShipmentRepository) GetByID(_ context.Context, id int64) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shipment, ok := r.shipments[id]
	if !ok {
		return nil, ports.ErrShipmentNotFound
	}
	clone := *shipment
	return &clone, nil
}

func (r *ShipmentRepository) GetByTrackingCode(_ context.Context, code string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, shipment := range r.shipments {
		if shipment.TrackingCode == code {
			clone := *shipment
			return &clone, nil
		}
	}
	return nil, ports.ErrShipmentNotFound
}

func (r *ShipmentRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Shipment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if r.statuses == nil {
		return nil, errors.New("memory shipment repository has no status store attached")
	}
	matching := make([]*domain.Shipment, 0, len(all))
	for _, shipment := range all {
		latest, err := r.statuses.GetLatestStatus(ctx, shipment.ID)
		if err != nil {
			continue
		}
		if latest.Status == status {
			matching = append(matching, shipment)
		}
	}
	return matching, nil
}

func (r *ShipmentRepository) List(_ context.Context) ([]*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Shipment, 0, len(r.shipments))
	for _, shipment := range r.shipments {
		clone := *shipment
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
