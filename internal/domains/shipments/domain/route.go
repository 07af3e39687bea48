package domain

import (
	"fmt"
	"time"
)

// Location is read-only reference data describing a served city.
type Location struct {
	ID         int64
	Name       string
	Department string
}

// Route is reference data connecting two locations.
type Route struct {
	ID            int64
	OriginID      int64
	DestinationID int64
	EstimatedTime string
	DistanceKm    float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Origin and Destination hold resolved location names when the
	// repository enriched the row. Nil when unresolved.
	Origin      *Location
	Destination *Location
}

// OriginLabel returns the origin display name, falling back to the raw id.
func (r *Route) OriginLabel() string {
	if r.Origin != nil && r.Origin.Name != "" {
		return r.Origin.Name
	}
	return fmt.Sprintf("Origen ID: %d", r.OriginID)
}

// DestinationLabel returns the destination display name, falling back to the raw id.
func (r *Route) DestinationLabel() string {
	if r.Destination != nil && r.Destination.Name != "" {
		return r.Destination.Name
	}
	return fmt.Sprintf("Destino ID: %d", r.DestinationID)
}
