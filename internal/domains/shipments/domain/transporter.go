package domain

import (
	"errors"
	"time"
)

// MinOperationalCapacityGrams is the threshold below which a transporter is
// flagged unavailable after a capacity reduction.
const MinOperationalCapacityGrams int64 = 100

var ErrInvalidCapacity = errors.New("available capacity must stay between zero and total capacity")

// Transporter carries shipments on routes. AvailableCapacity tracks the
// remaining weight it can take; Available is a derived flag that admins can
// also toggle directly.
type Transporter struct {
	ID                int64
	Name              string
	VehicleType       string
	CapacityGrams     int64
	AvailableCapacity int64
	Available         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanCarry reports whether the transporter has room for the given weight.
func (t *Transporter) CanCarry(weightGrams int64) bool {
	return t.Available && t.AvailableCapacity >= weightGrams
}

// ReduceAvailable subtracts weight from the available capacity, flooring at
// zero. Hitting exactly zero flips the availability flag off.
func (t *Transporter) ReduceAvailable(weightGrams int64) {
	t.AvailableCapacity -= weightGrams
	if t.AvailableCapacity <= 0 {
		t.AvailableCapacity = 0
		t.Available = false
	}
}

// RestoreAvailable returns previously reserved weight, capped at the total
// capacity, and always re-enables the transporter.
func (t *Transporter) RestoreAvailable(weightGrams int64) {
	t.AvailableCapacity += weightGrams
	if t.AvailableCapacity > t.CapacityGrams {
		t.AvailableCapacity = t.CapacityGrams
	}
	t.Available = true
}

// Validate checks the capacity invariant.
func (t *Transporter) Validate() error {
	if t.CapacityGrams <= 0 || t.AvailableCapacity < 0 || t.AvailableCapacity > t.CapacityGrams {
		return ErrInvalidCapacity
	}
	return nil
}
