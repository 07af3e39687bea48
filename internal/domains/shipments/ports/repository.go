package ports

import (
	"context"
	"errors"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
)

var (
	ErrShipmentNotFound    = errors.New("shipment not found")
	ErrRouteNotFound       = errors.New("route not found")
	ErrTransporterNotFound = errors.New("transporter not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	// ErrPendingAssignmentExists is raised by the store when the partial
	// unique index on pending assignments rejects a second insert.
	ErrPendingAssignmentExists = errors.New("shipment already has a pending assignment")
)

// ShipmentRepository persists shipments. Shipments are create-only; their
// lifecycle lives in the status history.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error)
	GetByID(ctx context.Context, id int64) (*domain.Shipment, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Shipment, error)
	List(ctx context.Context) ([]*domain.Shipment, error)
}

// RouteFilter narrows route listings; zero values mean "any".
type RouteFilter struct {
	OriginID      int64
	DestinationID int64
}

// RouteRepository reads route reference data with resolved location names.
type RouteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	List(ctx context.Context, filter RouteFilter) ([]*domain.Route, error)
}

// TransporterRepository exposes transporter lookups plus the capacity ledger
// operations. Capacity updates clamp inside the store (GREATEST/LEAST) so
// concurrent writers cannot drive the value out of range.
type TransporterRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Transporter, error)
	List(ctx context.Context) ([]*domain.Transporter, error)
	GetAvailable(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error)
	UpdateAvailability(ctx context.Context, id int64, available bool) (*domain.Transporter, error)
	ReduceAvailableCapacity(ctx context.Context, id int64, weightGrams int64) (*domain.Transporter, error)
	RestoreAvailableCapacity(ctx context.Context, id int64, weightGrams int64) (*domain.Transporter, error)
}

// AssignmentFilter narrows assignment queries; nil fields mean "any".
type AssignmentFilter struct {
	RouteID       *int64
	TransporterID *int64
	Completed     *bool
	From          *time.Time
	To            *time.Time
}

// AssignmentRepository persists shipment-route assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error)
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	FindByShipmentID(ctx context.Context, shipmentID int64) ([]*domain.Assignment, error)
	Filter(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, error)
	MarkCompleted(ctx context.Context, id int64) (*domain.Assignment, error)
}
