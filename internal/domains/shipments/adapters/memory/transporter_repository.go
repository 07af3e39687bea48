package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.TransporterRepository = (*TransporterRepository)(nil)

// TransporterRepository holds transporters and applies the same clamped
// capacity arithmetic the Postgres adapter performs in SQL.
type TransporterRepository struct {
	mu           sync.RWMutex
	transporters map[int64]*domain.Transporter
}

func NewTransporterRepository() *TransporterRepository {
	return &TransporterRepository{transporters: map[int64]*domain.Transporter{}}
}

// Seed registers transporters, keyed by their IDs.
func (r *TransporterRepository) Seed(transporters ...*domain.Transporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, transporter := range transporters {
		clone := *transporter
		r.transporters[clone.ID] = &clone
	}
}

func (r *TransporterRepository) GetByID(_ context.Context, id int64) (*domain.Transporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transporter, ok := r.transporters[id]
	if !ok {
		return nil, ports.ErrTransporterNotFound
	}
	clone := *transporter
	return &clone, nil
}

func (r *TransporterRepository) List(_ context.Context) ([]*domain.Transporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Transporter, 0, len(r.transporters))
	for _, transporter := range r.transporters {
		clone := *transporter
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *TransporterRepository) GetAvailable(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*domain.Transporter, 0, len(all))
	for _, transporter := range all {
		if transporter.Available && transporter.AvailableCapacity >= minCapacityGrams {
			available = append(available, transporter)
		}
	}
	return available, nil
}

func (r *TransporterRepository) UpdateAvailability(_ context.Context, id int64, available bool) (*domain.Transporter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transporter, ok := r.transporters[id]
	if !ok {
		return nil, ports.ErrTransporterNotFound
	}
	transporter.Available = available
	transporter.UpdatedAt = time.Now()
	clone := *transporter
	return &clone, nil
}

func (r *TransporterRepository) ReduceAvailableCapacity(_ context.Context, id int64, weightGrams int64) (*domain.Transporter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transporter, ok := r.transporters[id]
	if !ok {
		return nil, ports.ErrTransporterNotFound
	}
	transporter.ReduceAvailable(weightGrams)
	transporter.UpdatedAt = time.Now()
	clone := *transporter
	return &clone, nil
}

func (r *TransporterRepository) RestoreAvailableCapacity(_ context.Context, id int64, weightGrams int64) (*domain.Transporter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transporter, ok := r.transporters[id]
	if !ok {
		return nil, ports.ErrTransporterNotFound
	}
	transporter.RestoreAvailable(weightGrams)
	transporter.UpdatedAt = time.Now()
	clone := *transporter
	return &clone, nil
}
