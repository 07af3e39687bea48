package domain

import "time"

// Assignment binds a shipment to a route and, optionally, a transporter.
// An assignment with no completion timestamp is pending; a shipment may have
// at most one pending assignment at any time.
type Assignment struct {
	ID            int64
	ShipmentID    int64
	RouteID       int64
	TransporterID *int64
	AdminID       int64
	AssignedAt    time.Time
	CompletedAt   *time.Time
	Notes         string
}

// Pending reports whether the assignment has not been completed yet.
func (a *Assignment) Pending() bool { return a.CompletedAt == nil }
