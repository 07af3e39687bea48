// Package mapper defines the transport-layer shapes of the shipments API and
// their conversions to and from the domain model.
package mapper

import (
	"time"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

// CreateShipmentRequest is the payload for registering a new shipment.
// Weights travel in grams.
type CreateShipmentRequest struct {
	OriginID          int64  `json:"origin_id" binding:"required,gt=0"`
	DestinationID     int64  `json:"destination_id" binding:"required,gt=0"`
	DestinationDetail string `json:"destination_detail"`
	ProductTypeID     int64  `json:"product_type_id" binding:"required,gt=0"`
	WeightGrams       int64  `json:"weight_grams" binding:"required,gt=0"`
	Dimensions        string `json:"dimensions"`
	RecipientName     string `json:"recipient_name" binding:"required"`
	RecipientAddress  string `json:"recipient_address" binding:"required"`
	RecipientPhone    string `json:"recipient_phone"`
	RecipientDocument string `json:"recipient_document" binding:"required"`
}

// AssignShipmentRequest binds a shipment to a route, optionally naming a
// transporter whose capacity gets reserved.
type AssignShipmentRequest struct {
	ShipmentID    int64  `json:"shipment_id" binding:"required,gt=0"`
	RouteID       int64  `json:"route_id" binding:"required,gt=0"`
	TransporterID *int64 `json:"transporter_id"`
	Notes         string `json:"notes"`
}

// ToAssignInput converts the request into the use-case input.
func ToAssignInput(adminID int64, req AssignShipmentRequest) ports.AssignShipmentInput {
	return ports.AssignShipmentInput{
		ShipmentID:    req.ShipmentID,
		RouteID:       req.RouteID,
		TransporterID: req.TransporterID,
		AdminID:       adminID,
		Notes:         req.Notes,
	}
}

// UpdateStatusRequest requests a status transition.
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required,shipment_status"`
	Comment string `json:"comment"`
}

// ToCreateInput converts the request into the use-case input.
func ToCreateInput(userID int64, req CreateShipmentRequest) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		UserID:            userID,
		OriginID:          req.OriginID,
		DestinationID:     req.DestinationID,
		DestinationDetail: req.DestinationDetail,
		ProductTypeID:     req.ProductTypeID,
		WeightGrams:       req.WeightGrams,
		Dimensions:        req.Dimensions,
		RecipientName:     req.RecipientName,
		RecipientAddress:  req.RecipientAddress,
		RecipientPhone:    req.RecipientPhone,
		RecipientDocument: req.RecipientDocument,
	}
}

// Shipment is the transport representation of a shipment.
type Shipment struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	OriginID          int64     `json:"origin_id"`
	DestinationID     int64     `json:"destination_id"`
	DestinationDetail string    `json:"destination_detail,omitempty"`
	ProductTypeID     int64     `json:"product_type_id"`
	WeightGrams       int64     `json:"weight_grams"`
	Dimensions        string    `json:"dimensions,omitempty"`
	RecipientName     string    `json:"recipient_name"`
	RecipientAddress  string    `json:"recipient_address"`
	RecipientPhone    string    `json:"recipient_phone,omitempty"`
	RecipientDocument string    `json:"recipient_document"`
	TrackingCode      string    `json:"tracking_code"`
	CreatedAt         time.Time `json:"created_at"`
}

// FromShipment converts a domain shipment to its transport shape.
func FromShipment(s *domain.Shipment) Shipment {
	if s == nil {
		return Shipment{}
	}
	return Shipment{
		ID:                s.ID,
		UserID:            s.UserID,
		OriginID:          s.OriginID,
		DestinationID:     s.DestinationID,
		DestinationDetail: s.DestinationDetail,
		ProductTypeID:     s.ProductTypeID,
		WeightGrams:       s.WeightGrams,
		Dimensions:        s.Dimensions,
		RecipientName:     s.RecipientName,
		RecipientAddress:  s.RecipientAddress,
		RecipientPhone:    s.RecipientPhone,
		RecipientDocument: s.RecipientDocument,
		TrackingCode:      s.TrackingCode,
		CreatedAt:         s.CreatedAt,
	}
}

// FromShipmentList converts a slice of domain shipments.
func FromShipmentList(shipments []*domain.Shipment) []Shipment {
	out := make([]Shipment, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, FromShipment(s))
	}
	return out
}

// StatusRecord is a single entry of the status history.
type StatusRecord struct {
	Status    string    `json:"status"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	UserName  string    `json:"user_name,omitempty"`
}

// StatusView couples the latest status with shipment identity fields.
type StatusView struct {
	ShipmentID   int64        `json:"shipment_id"`
	TrackingCode string       `json:"tracking_code"`
	Current      StatusRecord `json:"current"`
}

// HistoryView is the full status trail, newest first.
type HistoryView struct {
	ShipmentID   int64          `json:"shipment_id"`
	TrackingCode string         `json:"tracking_code"`
	History      []StatusRecord `json:"history"`
}

func fromStatusRecord(r *domain.StatusRecord) StatusRecord {
	if r == nil {
		return StatusRecord{}
	}
	return StatusRecord{
		Status:    string(r.Status),
		Comment:   r.Comment,
		Timestamp: r.Timestamp,
		UserName:  r.UserName,
	}
}

// FromStatusView converts the use-case status view.
func FromStatusView(view *ports.StatusView) StatusView {
	if view == nil {
		return StatusView{}
	}
	out := StatusView{Current: fromStatusRecord(view.Record)}
	if view.Shipment != nil {
		out.ShipmentID = view.Shipment.ID
		out.TrackingCode = view.Shipment.TrackingCode
	}
	return out
}

// FromHistoryView converts the use-case history view.
func FromHistoryView(view *ports.HistoryView) HistoryView {
	if view == nil {
		return HistoryView{}
	}
	out := HistoryView{History: make([]StatusRecord, 0, len(view.History))}
	if view.Shipment != nil {
		out.ShipmentID = view.Shipment.ID
		out.TrackingCode = view.Shipment.TrackingCode
	}
	for _, record := range view.History {
		out.History = append(out.History, fromStatusRecord(record))
	}
	return out
}

// Assignment is the transport representation of a route assignment.
type Assignment struct {
	ID            int64      `json:"id"`
	ShipmentID    int64      `json:"shipment_id"`
	RouteID       int64      `json:"route_id"`
	TransporterID *int64     `json:"transporter_id,omitempty"`
	AssignedAt    time.Time  `json:"assigned_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// FromAssignment converts a domain assignment to its transport shape.
func FromAssignment(a *domain.Assignment) Assignment {
	if a == nil {
		return Assignment{}
	}
	return Assignment{
		ID:            a.ID,
		ShipmentID:    a.ShipmentID,
		RouteID:       a.RouteID,
		TransporterID: a.TransporterID,
		AssignedAt:    a.AssignedAt,
		CompletedAt:   a.CompletedAt,
		Notes:         a.Notes,
	}
}

// Transporter is the transport representation of a transporter.
type Transporter struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	VehicleType       string `json:"vehicle_type"`
	CapacityGrams     int64  `json:"capacity_grams"`
	AvailableCapacity int64  `json:"available_capacity"`
	Available         bool   `json:"available"`
}

// FromTransporterList converts a slice of domain transporters.
func FromTransporterList(transporters []*domain.Transporter) []Transporter {
	out := make([]Transporter, 0, len(transporters))
	for _, t := range transporters {
		out = append(out, Transporter{
			ID:                t.ID,
			Name:              t.Name,
			VehicleType:       t.VehicleType,
			CapacityGrams:     t.CapacityGrams,
			AvailableCapacity: t.AvailableCapacity,
			Available:         t.Available,
		})
	}
	return out
}

// Route is the transport representation of a route.
type Route struct {
	ID            int64   `json:"id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	EstimatedTime string  `json:"estimated_time,omitempty"`
	DistanceKm    float64 `json:"distance_km,omitempty"`
}

// FromRouteList converts a slice of domain routes, resolving display labels.
func FromRouteList(routes []*domain.Route) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, Route{
			ID:            r.ID,
			Origin:        r.OriginLabel(),
			Destination:   r.DestinationLabel(),
			EstimatedTime: r.EstimatedTime,
			DistanceKm:    r.DistanceKm,
		})
	}
	return out
}
