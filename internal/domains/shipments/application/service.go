package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

// Service orchestrates the shipments bounded context use cases.
type Service struct {
	shipments    ports.ShipmentRepository
	routes       ports.RouteRepository
	transporters ports.TransporterRepository
	assignments  ports.AssignmentRepository
	statuses     ports.StatusRepository
	users        ports.UserDirectory
	dispatcher   ports.NotificationDispatcher
	logger       *slog.Logger
}

// Option customizes the service at construction time.
type Option func(*Service)

// WithLogger injects the slog logger used for absorbed side-channel failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUserDirectory enables owner email resolution for notifications.
func WithUserDirectory(users ports.UserDirectory) Option {
	return func(s *Service) { s.users = users }
}

// WithNotificationDispatcher enables fire-and-forget notifications.
func WithNotificationDispatcher(dispatcher ports.NotificationDispatcher) Option {
	return func(s *Service) { s.dispatcher = dispatcher }
}

// NewService wires the shipments service with its dependencies. The status
// repository is expected to be the cached decorator so that every status
// write invalidates the tracking-code cache entries.
func NewService(
	shipments ports.ShipmentRepository,
	routes ports.RouteRepository,
	transporters ports.TransporterRepository,
	assignments ports.AssignmentRepository,
	statuses ports.StatusRepository,
	opts ...Option,
) *Service {
	s := &Service{
		shipments:    shipments,
		routes:       routes,
		transporters: transporters,
		assignments:  assignments,
		statuses:     statuses,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateShipment registers a shipment with a fresh tracking code and its
// initial "En espera" status record, then notifies the owner best-effort.
func (s *Service) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	shipment, err := domain.NewShipment(
		input.UserID, input.OriginID, input.DestinationID, input.ProductTypeID, input.WeightGrams,
		input.Dimensions, input.RecipientName, input.RecipientAddress, input.RecipientPhone, input.RecipientDocument,
	)
	if err != nil {
		return nil, mapError(err)
	}
	shipment.DestinationDetail = input.DestinationDetail

	created, err := s.shipments.Create(ctx, shipment)
	if err != nil {
		return nil, err
	}
	if err := s.statuses.CreateInitialStatus(ctx, created.ID, created.UserID); err != nil {
		return nil, fmt.Errorf("create initial status for shipment %d: %w", created.ID, err)
	}

	s.notifyCreation(ctx, created)
	return created, nil
}

// AssignShipmentToRoute validates shipment, route and transporter, creates
// the assignment, writes the "En transito" status and reserves transporter
// capacity. The pending-assignment rule is checked here and enforced again
// by the store's partial unique index.
func (s *Service) AssignShipmentToRoute(ctx context.Context, input ports.AssignShipmentInput) (*domain.Assignment, error) {
	shipment, err := s.shipments.GetByID(ctx, input.ShipmentID)
	if err != nil {
		return nil, err
	}
	route, err := s.routes.GetByID(ctx, input.RouteID)
	if err != nil {
		return nil, err
	}

	if input.TransporterID != nil {
		transporter, err := s.transporters.GetByID(ctx, *input.TransporterID)
		if err != nil {
			return nil, err
		}
		if !transporter.Available {
			return nil, ErrTransporterUnavailable
		}
		if transporter.AvailableCapacity < shipment.WeightGrams {
			return nil, ErrInsufficientCapacity
		}
	}

	existing, err := s.assignments.FindByShipmentID(ctx, input.ShipmentID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Pending() {
			return nil, ErrAlreadyAssigned
		}
	}

	created, err := s.assignments.Create(ctx, &domain.Assignment{
		ShipmentID:    input.ShipmentID,
		RouteID:       input.RouteID,
		TransporterID: input.TransporterID,
		AdminID:       input.AdminID,
		AssignedAt:    time.Now(),
		Notes:         input.Notes,
	})
	if err != nil {
		if errors.Is(err, ports.ErrPendingAssignmentExists) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}

	if err := s.statuses.CreateStatus(ctx, &domain.StatusRecord{
		ShipmentID: input.ShipmentID,
		Status:     domain.StatusInTransit,
		Comment:    fmt.Sprintf("Asignado a la ruta %s - %s", route.OriginLabel(), route.DestinationLabel()),
		CreatedBy:  input.AdminID,
	}); err != nil {
		return nil, err
	}

	if input.TransporterID != nil {
		updated, err := s.transporters.ReduceAvailableCapacity(ctx, *input.TransporterID, shipment.WeightGrams)
		if err != nil {
			return nil, err
		}
		if updated.AvailableCapacity < domain.MinOperationalCapacityGrams {
			if _, err := s.transporters.UpdateAvailability(ctx, *input.TransporterID, false); err != nil {
				return nil, err
			}
		}
	}

	s.notifyAssignment(ctx, shipment, route)
	return created, nil
}

// UpdateShipmentStatus moves a shipment through the status state machine.
// On transition to "Entregado" the reserved transporter capacity is restored
// best-effort: bookkeeping failures are logged and never block the status
// write.
func (s *Service) UpdateShipmentStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.StatusRecord, error) {
	newStatus, err := domain.ParseStatus(input.NewStatus)
	if err != nil {
		return nil, mapError(err)
	}

	shipment, err := s.shipments.GetByID(ctx, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	current, err := s.statuses.GetLatestStatus(ctx, input.ShipmentID)
	if err != nil {
		return nil, err
	}
	if err := current.Status.ValidateTransition(newStatus); err != nil {
		return nil, mapError(err)
	}

	if newStatus == domain.StatusDelivered {
		s.restoreTransporterCapacity(ctx, shipment)
	}

	comment := input.Comment
	if comment == "" {
		comment = fmt.Sprintf("Estado actualizado a %s", newStatus)
	}
	if err := s.statuses.CreateStatus(ctx, &domain.StatusRecord{
		ShipmentID: input.ShipmentID,
		Status:     newStatus,
		Comment:    comment,
		CreatedBy:  input.AdminID,
	}); err != nil {
		return nil, err
	}

	return s.statuses.GetLatestStatus(ctx, input.ShipmentID)
}

// restoreTransporterCapacity returns the shipment's weight to the pending
// assignment's transporter. Failures here are absorbed: status correctness
// outranks capacity bookkeeping.
func (s *Service) restoreTransporterCapacity(ctx context.Context, shipment *domain.Shipment) {
	assignments, err := s.assignments.FindByShipmentID(ctx, shipment.ID)
	if err != nil {
		s.logger.Error("failed to load assignments for capacity restoration",
			slog.Int64("shipment.id", shipment.ID), slog.String("error", err.Error()))
		return
	}
	for _, a := range assignments {
		if !a.Pending() || a.TransporterID == nil {
			continue
		}
		if _, err := s.transporters.RestoreAvailableCapacity(ctx, *a.TransporterID, shipment.WeightGrams); err != nil {
			s.logger.Error("failed to restore transporter capacity",
				slog.Int64("shipment.id", shipment.ID),
				slog.Int64("transporter.id", *a.TransporterID),
				slog.String("error", err.Error()))
		}
		return
	}
}

// CompleteAssignment stamps the completion timestamp, releasing the
// single-pending-assignment slot for the shipment.
func (s *Service) CompleteAssignment(ctx context.Context, assignmentID int64) (*domain.Assignment, error) {
	return s.assignments.MarkCompleted(ctx, assignmentID)
}

// GetShipmentStatus returns the current status of a shipment the actor may see.
func (s *Service) GetShipmentStatus(ctx context.Context, shipmentID int64, actor ports.Actor) (*ports.StatusView, error) {
	shipment, err := s.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && !shipment.OwnedBy(actor.UserID) {
		return nil, ErrAccessDenied
	}
	record, err := s.statuses.GetLatestStatus(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return &ports.StatusView{Record: record, Shipment: shipment}, nil
}

// GetShipmentStatusHistory returns the full status trail, newest first.
func (s *Service) GetShipmentStatusHistory(ctx context.Context, shipmentID int64, actor ports.Actor) (*ports.HistoryView, error) {
	shipment, err := s.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && !shipment.OwnedBy(actor.UserID) {
		return nil, ErrAccessDenied
	}
	history, err := s.statuses.GetStatusHistory(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return &ports.HistoryView{Shipment: shipment, History: history}, nil
}

// TrackStatus is the public tracking-code lookup of the current status.
func (s *Service) TrackStatus(ctx context.Context, trackingCode string) (*ports.StatusView, error) {
	shipment, err := s.shipments.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	record, err := s.statuses.GetLatestStatus(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	return &ports.StatusView{Record: record, Shipment: shipment}, nil
}

// TrackHistory is the public tracking-code lookup of the status history.
func (s *Service) TrackHistory(ctx context.Context, trackingCode string) (*ports.HistoryView, error) {
	shipment, err := s.shipments.GetByTrackingCode(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	history, err := s.statuses.GetStatusHistory(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	return &ports.HistoryView{Shipment: shipment, History: history}, nil
}

// ListShipments returns every shipment, optionally filtered by status.
func (s *Service) ListShipments(ctx context.Context, status string) ([]*domain.Shipment, error) {
	if status == "" {
		return s.shipments.List(ctx)
	}
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	return s.shipments.FindByStatus(ctx, parsed)
}

// PendingShipments lists shipments waiting for assignment: currently
// "En espera" and without a pending assignment.
func (s *Service) PendingShipments(ctx context.Context) ([]*domain.Shipment, error) {
	waiting, err := s.shipments.FindByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	unassigned := make([]*domain.Shipment, 0, len(waiting))
	for _, shipment := range waiting {
		assignments, err := s.assignments.FindByShipmentID(ctx, shipment.ID)
		if err != nil {
			return nil, err
		}
		pending := false
		for _, a := range assignments {
			if a.Pending() {
				pending = true
				break
			}
		}
		if !pending {
			unassigned = append(unassigned, shipment)
		}
	}
	return unassigned, nil
}

// AvailableTransporters lists transporters able to take more load. With a
// positive minimum the store filters; otherwise availability is checked here.
func (s *Service) AvailableTransporters(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error) {
	if minCapacityGrams > 0 {
		return s.transporters.GetAvailable(ctx, minCapacityGrams)
	}
	all, err := s.transporters.List(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*domain.Transporter, 0, len(all))
	for _, t := range all {
		if t.Available && t.AvailableCapacity > 0 {
			available = append(available, t)
		}
	}
	return available, nil
}

// AvailableRoutes lists routes matching the filter.
func (s *Service) AvailableRoutes(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	return s.routes.List(ctx, filter)
}

func (s *Service) notifyCreation(ctx context.Context, shipment *domain.Shipment) {
	if s.dispatcher == nil || s.users == nil {
		return
	}
	email, err := s.users.FindEmail(ctx, shipment.UserID)
	if err != nil {
		s.logger.Warn("skipping creation notification, owner lookup failed",
			slog.Int64("shipment.id", shipment.ID), slog.String("error", err.Error()))
		return
	}
	if err := s.dispatcher.DispatchCreationNotification(ctx, ports.CreationNotification{
		Email:         email,
		TrackingCode:  shipment.TrackingCode,
		RecipientName: shipment.RecipientName,
	}); err != nil {
		s.logger.Error("failed to dispatch creation notification",
			slog.Int64("shipment.id", shipment.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) notifyAssignment(ctx context.Context, shipment *domain.Shipment, route *domain.Route) {
	if s.dispatcher == nil || s.users == nil {
		return
	}
	email, err := s.users.FindEmail(ctx, shipment.UserID)
	if err != nil {
		s.logger.Warn("skipping assignment notification, owner lookup failed",
			slog.Int64("shipment.id", shipment.ID), slog.String("error", err.Error()))
		return
	}
	eta := route.EstimatedTime
	if eta == "" {
		eta = "No disponible"
	}
	if err := s.dispatcher.DispatchAssignmentNotification(ctx, ports.AssignmentNotification{
		Email:         email,
		TrackingCode:  shipment.TrackingCode,
		Origin:        route.OriginLabel(),
		Destination:   route.DestinationLabel(),
		EstimatedTime: eta,
	}); err != nil {
		s.logger.Error("failed to dispatch assignment notification",
			slog.Int64("shipment.id", shipment.ID), slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
