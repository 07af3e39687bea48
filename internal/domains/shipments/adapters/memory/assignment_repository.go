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

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

// AssignmentRepository keeps assignments in memory. Like the partial unique
// index in Postgres, Create rejects a second pending assignment for the same
// shipment.
type AssignmentRepository struct {
	mu          sync.Mutex
	assignments map[int64]*domain.Assignment
	nextID      int64
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{assignments: map[int64]*domain.Assignment{}}
}

func (r *AssignmentRepository) Create(_ context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	if assignment == nil {
		return nil, errors.New("assignment is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.assignments {
		if existing.ShipmentID == assignment.ShipmentID && existing.Pending() {
			return nil, ports.ErrPendingAssignmentExists
		}
	}
	clone := *assignment
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if clone.AssignedAt.IsZero() {
		clone.AssignedAt = time.Now()
	}
	r.assignments[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *AssignmentRepository) GetByID(_ context.Context, id int64) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, ports.ErrAssignmentNotFound
	}
	clone := *assignment
	return &clone, nil
}

func (r *AssignmentRepository) FindByShipmentID(_ context.Context, shipmentID int64) ([]*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Assignment, 0)
	for _, assignment := range r.assignments {
		if assignment.ShipmentID == shipmentID {
			clone := *assignment
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AssignedAt.After(list[j].AssignedAt) })
	return list, nil
}

func (r *AssignmentRepository) Filter(_ context.Context, filter ports.AssignmentFilter) ([]*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Assignment, 0)
	for _, assignment := range r.assignments {
		if filter.RouteID != nil && assignment.RouteID != *filter.RouteID {
			continue
		}
		if filter.TransporterID != nil {
			if assignment.TransporterID == nil || *assignment.TransporterID != *filter.TransporterID {
				continue
			}
		}
		if filter.Completed != nil && assignment.Pending() == *filter.Completed {
			continue
		}
		if filter.From != nil && assignment.AssignedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && assignment.AssignedAt.After(*filter.To) {
			continue
		}
		clone := *assignment
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AssignedAt.After(list[j].AssignedAt) })
	return list, nil
}

func (r *AssignmentRepository) MarkCompleted(_ context.Context, id int64) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, ports.ErrAssignmentNotFound
	}
	now := time.Now()
	assignment.CompletedAt = &now
	clone := *assignment
	return &clone, nil
}
