package ports

import (
	"context"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
)

// CreateShipmentInput carries the fields a user submits for a new shipment.
type CreateShipmentInput struct {
	UserID            int64
	OriginID          int64
	DestinationID     int64
	DestinationDetail string
	ProductTypeID     int64
	WeightGrams       int64
	Dimensions        string
	RecipientName     string
	RecipientAddress  string
	RecipientPhone    string
	RecipientDocument string
}

// AssignShipmentInput binds a shipment to a route, optionally reserving a
// transporter's capacity.
type AssignShipmentInput struct {
	ShipmentID    int64
	RouteID       int64
	TransporterID *int64
	AdminID       int64
	Notes         string
}

// UpdateStatusInput requests a status transition.
type UpdateStatusInput struct {
	ShipmentID int64
	NewStatus  string
	AdminID    int64
	Comment    string
}

// StatusView couples a status record with the shipment it describes.
type StatusView struct {
	Record   *domain.StatusRecord
	Shipment *domain.Shipment
}

// HistoryView is the full status trail of a shipment, newest first.
type HistoryView struct {
	Shipment *domain.Shipment
	History  []*domain.StatusRecord
}

// Actor identifies the caller for access checks.
type Actor struct {
	UserID int64
	Admin  bool
}

// Service is the shipments use-case surface. The observability adapter
// decorates this interface.
type Service interface {
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error)
	AssignShipmentToRoute(ctx context.Context, input AssignShipmentInput) (*domain.Assignment, error)
	UpdateShipmentStatus(ctx context.Context, input UpdateStatusInput) (*domain.StatusRecord, error)
	CompleteAssignment(ctx context.Context, assignmentID int64) (*domain.Assignment, error)

	GetShipmentStatus(ctx context.Context, shipmentID int64, actor Actor) (*StatusView, error)
	GetShipmentStatusHistory(ctx context.Context, shipmentID int64, actor Actor) (*HistoryView, error)
	TrackStatus(ctx context.Context, trackingCode string) (*StatusView, error)
	TrackHistory(ctx context.Context, trackingCode string) (*HistoryView, error)

	ListShipments(ctx context.Context, status string) ([]*domain.Shipment, error)
	PendingShipments(ctx context.Context) ([]*domain.Shipment, error)
	AvailableTransporters(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error)
	AvailableRoutes(ctx context.Context, filter RouteFilter) ([]*domain.Route, error)
}
