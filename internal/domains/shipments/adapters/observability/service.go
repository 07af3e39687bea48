package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

const tracerName = "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/observability/service"

// Service decorates the shipments service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core shipments service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*domain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.CreateShipment",
		trace.WithAttributes(attribute.Int64("shipment.user_id", input.UserID), attribute.Int64("shipment.weight_grams", input.WeightGrams)))
	defer span.End()

	s.logInfo(ctx, "creating shipment", slog.Int64("user.id", input.UserID))
	result, err := s.inner.CreateShipment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create shipment", slog.Int64("user.id", input.UserID))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "shipment created", slog.Int64("shipment.id", result.ID), slog.String("tracking_code", result.TrackingCode))
	return result, nil
}

func (s *Service) AssignShipmentToRoute(ctx context.Context, input ports.AssignShipmentInput) (*domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.AssignShipmentToRoute",
		trace.WithAttributes(attribute.Int64("shipment.id", input.ShipmentID), attribute.Int64("route.id", input.RouteID)))
	defer span.End()

	s.logInfo(ctx, "assigning shipment", slog.Int64("shipment.id", input.ShipmentID), slog.Int64("route.id", input.RouteID))
	result, err := s.inner.AssignShipmentToRoute(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign shipment", slog.Int64("shipment.id", input.ShipmentID))
	}
	s.metrics.recordAssigned(ctx)
	s.logInfo(ctx, "shipment assigned", slog.Int64("shipment.id", result.ShipmentID), slog.Int64("assignment.id", result.ID))
	return result, nil
}

func (s *Service) UpdateShipmentStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.StatusRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.UpdateShipmentStatus",
		trace.WithAttributes(attribute.Int64("shipment.id", input.ShipmentID), attribute.String("shipment.status", input.NewStatus)))
	defer span.End()

	s.logInfo(ctx, "updating shipment status", slog.Int64("shipment.id", input.ShipmentID), slog.String("status", input.NewStatus))
	result, err := s.inner.UpdateShipmentStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update shipment status", slog.Int64("shipment.id", input.ShipmentID))
	}
	s.metrics.recordStatusChanged(ctx, result.Status)
	s.logInfo(ctx, "shipment status updated", slog.Int64("shipment.id", input.ShipmentID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) CompleteAssignment(ctx context.Context, assignmentID int64) (*domain.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.CompleteAssignment",
		trace.WithAttributes(attribute.Int64("assignment.id", assignmentID)))
	defer span.End()

	s.logInfo(ctx, "completing assignment", slog.Int64("assignment.id", assignmentID))
	result, err := s.inner.CompleteAssignment(ctx, assignmentID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete assignment", slog.Int64("assignment.id", assignmentID))
	}
	s.logInfo(ctx, "assignment completed", slog.Int64("assignment.id", result.ID))
	return result, nil
}

func (s *Service) GetShipmentStatus(ctx context.Context, shipmentID int64, actor ports.Actor) (*ports.StatusView, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.GetShipmentStatus",
		trace.WithAttributes(attribute.Int64("shipment.id", shipmentID)))
	defer span.End()

	result, err := s.inner.GetShipmentStatus(ctx, shipmentID, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load shipment status", slog.Int64("shipment.id", shipmentID))
	}
	span.SetAttributes(attribute.String("shipment.status", string(result.Record.Status)))
	return result, nil
}

func (s *Service) GetShipmentStatusHistory(ctx context.Context, shipmentID int64, actor ports.Actor) (*ports.HistoryView, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.GetShipmentStatusHistory",
		trace.WithAttributes(attribute.Int64("shipment.id", shipmentID)))
	defer span.End()

	result, err := s.inner.GetShipmentStatusHistory(ctx, shipmentID, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load shipment status history", slog.Int64("shipment.id", shipmentID))
	}
	span.SetAttributes(attribute.Int("shipment.history.count", len(result.History)))
	return result, nil
}

func (s *Service) TrackStatus(ctx context.Context, trackingCode string) (*ports.StatusView, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.TrackStatus",
		trace.WithAttributes(attribute.String("tracking_code", trackingCode)))
	defer span.End()

	result, err := s.inner.TrackStatus(ctx, trackingCode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to track status", slog.String("tracking_code", trackingCode))
	}
	s.metrics.recordTracked(ctx)
	return result, nil
}

func (s *Service) TrackHistory(ctx context.Context, trackingCode string) (*ports.HistoryView, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.TrackHistory",
		trace.WithAttributes(attribute.String("tracking_code", trackingCode)))
	defer span.End()

	result, err := s.inner.TrackHistory(ctx, trackingCode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to track history", slog.String("tracking_code", trackingCode))
	}
	s.metrics.recordTracked(ctx)
	return result, nil
}

func (s *Service) ListShipments(ctx context.Context, status string) ([]*domain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.ListShipments")
	defer span.End()

	result, err := s.inner.ListShipments(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list shipments")
	}
	span.SetAttributes(attribute.Int("shipment.count", len(result)))
	return result, nil
}

func (s *Service) PendingShipments(ctx context.Context) ([]*domain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.PendingShipments")
	defer span.End()

	result, err := s.inner.PendingShipments(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pending shipments")
	}
	span.SetAttributes(attribute.Int("shipment.count", len(result)))
	return result, nil
}

func (s *Service) AvailableTransporters(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.AvailableTransporters",
		trace.WithAttributes(attribute.Int64("transporter.min_capacity_grams", minCapacityGrams)))
	defer span.End()

	result, err := s.inner.AvailableTransporters(ctx, minCapacityGrams)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list available transporters")
	}
	span.SetAttributes(attribute.Int("transporter.count", len(result)))
	return result, nil
}

func (s *Service) AvailableRoutes(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.AvailableRoutes")
	defer span.End()

	result, err := s.inner.AvailableRoutes(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list routes")
	}
	span.SetAttributes(attribute.Int("route.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	shipmentsCreated  metric.Int64Counter
	shipmentsAssigned metric.Int64Counter
	statusChanges     metric.Int64Counter
	trackingLookups   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("shipments.service.created", metric.WithDescription("Number of shipments created"))
	assigned, _ := m.Int64Counter("shipments.service.assigned", metric.WithDescription("Number of shipments assigned to routes"))
	statusChanges, _ := m.Int64Counter("shipments.service.status_changes", metric.WithDescription("Number of status transitions applied"))
	trackingLookups, _ := m.Int64Counter("shipments.service.tracking_lookups", metric.WithDescription("Number of tracking code lookups"))
	return serviceMetrics{shipmentsCreated: created, shipmentsAssigned: assigned, statusChanges: statusChanges, trackingLookups: trackingLookups}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.shipmentsCreated != nil {
		m.shipmentsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAssigned(ctx context.Context) {
	if m.shipmentsAssigned != nil {
		m.shipmentsAssigned.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status domain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("shipment.status", string(status))))
	}
}

func (m serviceMetrics) recordTracked(ctx context.Context) {
	if m.trackingLookups != nil {
		m.trackingLookups.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
