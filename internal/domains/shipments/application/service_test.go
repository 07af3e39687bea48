package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/envioslab/shipment-api/internal/domains/shipments/adapters/memory"
	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

type fakeDirectory struct {
	emails map[int64]string
}

func (f *fakeDirectory) FindEmail(_ context.Context, userID int64) (string, error) {
	if email, ok := f.emails[userID]; ok {
		return email, nil
	}
	return "", ports.ErrUserNotFound
}

type recordingDispatcher struct {
	creations   []ports.CreationNotification
	assignments []ports.AssignmentNotification
}

func (d *recordingDispatcher) DispatchCreationNotification(_ context.Context, n ports.CreationNotification) error {
	d.creations = append(d.creations, n)
	return nil
}

func (d *recordingDispatcher) DispatchAssignmentNotification(_ context.Context, n ports.AssignmentNotification) error {
	d.assignments = append(d.assignments, n)
	return nil
}

type fixture struct {
	service      *Service
	shipments    *memory.ShipmentRepository
	routes       *memory.RouteRepository
	transporters *memory.TransporterRepository
	assignments  *memory.AssignmentRepository
	statuses     *memory.StatusStore
	dispatcher   *recordingDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	statuses := memory.NewStatusStore()
	f := &fixture{
		shipments:    memory.NewShipmentRepository(statuses),
		routes:       memory.NewRouteRepository(),
		transporters: memory.NewTransporterRepository(),
		assignments:  memory.NewAssignmentRepository(),
		statuses:     statuses,
		dispatcher:   &recordingDispatcher{},
	}
	f.routes.Seed(&domain.Route{
		ID:            1,
		OriginID:      10,
		DestinationID: 20,
		EstimatedTime: "48 horas",
		Origin:        &domain.Location{ID: 10, Name: "Bogotá"},
		Destination:   &domain.Location{ID: 20, Name: "Medellín"},
	})
	f.transporters.Seed(&domain.Transporter{
		ID:                1,
		Name:              "Transportes Andinos",
		VehicleType:       "camion",
		CapacityGrams:     1000,
		AvailableCapacity: 1000,
		Available:         true,
	})
	f.service = NewService(
		f.shipments, f.routes, f.transporters, f.assignments, f.statuses,
		WithUserDirectory(&fakeDirectory{emails: map[int64]string{7: "ana@example.com"}}),
		WithNotificationDispatcher(f.dispatcher),
	)
	return f
}

func (f *fixture) createShipment(t *testing.T, weightGrams int64) *domain.Shipment {
	t.Helper()
	shipment, err := f.service.CreateShipment(context.Background(), ports.CreateShipmentInput{
		UserID:           7,
		OriginID:         10,
		DestinationID:    20,
		ProductTypeID:    1,
		WeightGrams:      weightGrams,
		RecipientName:    "Ana Gómez",
		RecipientAddress: "Calle 12 #3-45",
	})
	require.NoError(t, err)
	return shipment
}

func (f *fixture) assign(t *testing.T, shipmentID int64) *domain.Assignment {
	t.Helper()
	transporterID := int64(1)
	assignment, err := f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID:    shipmentID,
		RouteID:       1,
		TransporterID: &transporterID,
		AdminID:       2,
	})
	require.NoError(t, err)
	return assignment
}

func TestCreateShipment_WritesInitialStatusAndNotifies(t *testing.T) {
	f := newFixture(t)

	shipment := f.createShipment(t, 500)
	require.NotZero(t, shipment.ID)
	require.Len(t, shipment.TrackingCode, 8)

	record, err := f.statuses.GetLatestStatus(context.Background(), shipment.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, record.Status)
	require.Equal(t, "Envío registrado en el sistema", record.Comment)

	require.Len(t, f.dispatcher.creations, 1)
	require.Equal(t, "ana@example.com", f.dispatcher.creations[0].Email)
	require.Equal(t, shipment.TrackingCode, f.dispatcher.creations[0].TrackingCode)
}

func TestCreateShipment_InvalidWeight(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateShipment(context.Background(), ports.CreateShipmentInput{
		UserID: 7, OriginID: 10, DestinationID: 20, ProductTypeID: 1,
		WeightGrams: 0, RecipientName: "Ana Gómez", RecipientAddress: "Calle 12 #3-45",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, f.dispatcher.creations)
}

func TestCreateShipment_OwnerLookupFailureDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	shipment, err := f.service.CreateShipment(context.Background(), ports.CreateShipmentInput{
		UserID: 99, OriginID: 10, DestinationID: 20, ProductTypeID: 1,
		WeightGrams: 200, RecipientName: "Luis Rojas", RecipientAddress: "Carrera 8 #9-10",
	})
	require.NoError(t, err)
	require.NotZero(t, shipment.ID)
	require.Empty(t, f.dispatcher.creations)
}

func TestAssignShipmentToRoute_ReservesCapacityAndWritesStatus(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 500)

	assignment := f.assign(t, shipment.ID)
	require.Equal(t, shipment.ID, assignment.ShipmentID)
	require.True(t, assignment.Pending())

	record, err := f.statuses.GetLatestStatus(context.Background(), shipment.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInTransit, record.Status)
	require.Equal(t, "Asignado a la ruta Bogotá - Medellín", record.Comment)

	transporter, err := f.transporters.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(500), transporter.AvailableCapacity)
	require.True(t, transporter.Available)

	require.Len(t, f.dispatcher.assignments, 1)
	require.Equal(t, "Bogotá", f.dispatcher.assignments[0].Origin)
	require.Equal(t, "48 horas", f.dispatcher.assignments[0].EstimatedTime)
}

func TestAssignShipmentToRoute_DisablesDrainedTransporter(t *testing.T) {
	f := newFixture(t)
	first := f.createShipment(t, 500)
	second := f.createShipment(t, 500)

	f.assign(t, first.ID)
	f.assign(t, second.ID)

	transporter, err := f.transporters.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), transporter.AvailableCapacity)
	require.False(t, transporter.Available)
}

func TestAssignShipmentToRoute_PendingAssignmentRejected(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 200)
	f.assign(t, shipment.ID)

	_, err := f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID: shipment.ID, RouteID: 1, AdminID: 2,
	})
	require.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestAssignShipmentToRoute_ReassignAfterCompletion(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 200)
	assignment := f.assign(t, shipment.ID)

	completed, err := f.service.CompleteAssignment(context.Background(), assignment.ID)
	require.NoError(t, err)
	require.False(t, completed.Pending())

	reassigned := f.assign(t, shipment.ID)
	require.NotEqual(t, assignment.ID, reassigned.ID)
}

func TestAssignShipmentToRoute_InsufficientCapacity(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 1500)
	transporterID := int64(1)

	_, err := f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID: shipment.ID, RouteID: 1, TransporterID: &transporterID, AdminID: 2,
	})
	require.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestAssignShipmentToRoute_UnavailableTransporter(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)
	_, err := f.transporters.UpdateAvailability(context.Background(), 1, false)
	require.NoError(t, err)

	transporterID := int64(1)
	_, err = f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID: shipment.ID, RouteID: 1, TransporterID: &transporterID, AdminID: 2,
	})
	require.ErrorIs(t, err, ErrTransporterUnavailable)
}

func TestAssignShipmentToRoute_WithoutTransporter(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	assignment, err := f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID: shipment.ID, RouteID: 1, AdminID: 2,
	})
	require.NoError(t, err)
	require.Nil(t, assignment.TransporterID)

	transporter, err := f.transporters.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1000), transporter.AvailableCapacity)
}

func TestAssignShipmentToRoute_UnknownShipment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AssignShipmentToRoute(context.Background(), ports.AssignShipmentInput{
		ShipmentID: 999, RouteID: 1, AdminID: 2,
	})
	require.ErrorIs(t, err, ports.ErrShipmentNotFound)
}

func TestUpdateShipmentStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	_, err := f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "Perdido", AdminID: 2,
	})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateShipmentStatus_SameStatusRejected(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	_, err := f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "En espera", AdminID: 2,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateShipmentStatus_DeliveredIsTerminal(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	_, err := f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "Entregado", AdminID: 2,
	})
	require.NoError(t, err)

	_, err = f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "En transito", AdminID: 2,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateShipmentStatus_DeliveryRestoresCapacity(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 500)
	f.assign(t, shipment.ID)

	record, err := f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "Entregado", AdminID: 2, Comment: "Entregado al destinatario",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, record.Status)
	require.Equal(t, "Entregado al destinatario", record.Comment)

	transporter, err := f.transporters.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1000), transporter.AvailableCapacity)
	require.True(t, transporter.Available)
}

func TestUpdateShipmentStatus_DefaultComment(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	record, err := f.service.UpdateShipmentStatus(context.Background(), ports.UpdateStatusInput{
		ShipmentID: shipment.ID, NewStatus: "En transito", AdminID: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "Estado actualizado a En transito", record.Comment)
}

func TestGetShipmentStatus_AccessChecks(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	view, err := f.service.GetShipmentStatus(context.Background(), shipment.ID, ports.Actor{UserID: 7})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, view.Record.Status)

	_, err = f.service.GetShipmentStatus(context.Background(), shipment.ID, ports.Actor{UserID: 8})
	require.ErrorIs(t, err, ErrAccessDenied)

	view, err = f.service.GetShipmentStatus(context.Background(), shipment.ID, ports.Actor{UserID: 8, Admin: true})
	require.NoError(t, err)
	require.Equal(t, shipment.TrackingCode, view.Shipment.TrackingCode)
}

func TestGetShipmentStatusHistory_NewestFirst(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)
	f.assign(t, shipment.ID)

	view, err := f.service.GetShipmentStatusHistory(context.Background(), shipment.ID, ports.Actor{UserID: 7})
	require.NoError(t, err)
	require.Len(t, view.History, 2)
	require.Equal(t, domain.StatusInTransit, view.History[0].Status)
	require.Equal(t, domain.StatusPending, view.History[1].Status)
}

func TestTrackStatus_ByTrackingCode(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)

	view, err := f.service.TrackStatus(context.Background(), shipment.TrackingCode)
	require.NoError(t, err)
	require.Equal(t, shipment.ID, view.Shipment.ID)
	require.Equal(t, domain.StatusPending, view.Record.Status)

	_, err = f.service.TrackStatus(context.Background(), "NOPE1234")
	require.ErrorIs(t, err, ports.ErrShipmentNotFound)
}

func TestTrackHistory_ByTrackingCode(t *testing.T) {
	f := newFixture(t)
	shipment := f.createShipment(t, 100)
	f.assign(t, shipment.ID)

	view, err := f.service.TrackHistory(context.Background(), shipment.TrackingCode)
	require.NoError(t, err)
	require.Equal(t, shipment.ID, view.Shipment.ID)
	require.Len(t, view.History, 2)
}

func TestListShipments_FilterByStatus(t *testing.T) {
	f := newFixture(t)
	waiting := f.createShipment(t, 100)
	moving := f.createShipment(t, 100)
	f.assign(t, moving.ID)

	all, err := f.service.ListShipments(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	inTransit, err := f.service.ListShipments(context.Background(), "En transito")
	require.NoError(t, err)
	require.Len(t, inTransit, 1)
	require.Equal(t, moving.ID, inTransit[0].ID)

	pending, err := f.service.ListShipments(context.Background(), "En espera")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, waiting.ID, pending[0].ID)

	_, err = f.service.ListShipments(context.Background(), "Perdido")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPendingShipments_ExcludesAssigned(t *testing.T) {
	f := newFixture(t)
	unassigned := f.createShipment(t, 100)
	assigned := f.createShipment(t, 100)
	f.assign(t, assigned.ID)

	pending, err := f.service.PendingShipments(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, unassigned.ID, pending[0].ID)
}

func TestAvailableTransporters_Filtering(t *testing.T) {
	f := newFixture(t)
	f.transporters.Seed(&domain.Transporter{
		ID: 2, Name: "Moto Express", VehicleType: "moto",
		CapacityGrams: 200, AvailableCapacity: 150, Available: true,
	})

	withMin, err := f.service.AvailableTransporters(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, withMin, 1)
	require.Equal(t, int64(1), withMin[0].ID)

	all, err := f.service.AvailableTransporters(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCompleteAssignment_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CompleteAssignment(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrAssignmentNotFound)
}
