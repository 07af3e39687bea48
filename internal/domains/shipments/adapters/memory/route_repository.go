package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.RouteRepository = (*RouteRepository)(nil)

// RouteRepository serves route reference data from a seeded map.
type RouteRepository struct {
	mu     sync.RWMutex
	routes map[int64]*domain.Route
}

func NewRouteRepository() *RouteRepository {
	return &RouteRepository{routes: map[int64]*domain.Route{}}
}

// Seed registers routes, keyed by their IDs.
func (r *RouteRepository) Seed(routes ...*domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, route := range routes {
		clone := *route
		r.routes[clone.ID] = &clone
	}
}

func (r *RouteRepository) GetByID(_ context.Context, id int64) (*domain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[id]
	if !ok {
		return nil, ports.ErrRouteNotFound
	}
	clone := *route
	return &clone, nil
}

func (r *RouteRepository) List(_ context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Route, 0, len(r.routes))
	for _, route := range r.routes {
		if filter.OriginID != 0 && route.OriginID != filter.OriginID {
			continue
		}
		if filter.DestinationID != 0 && route.DestinationID != filter.DestinationID {
			continue
		}
		clone := *route
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
