package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status is a shipment lifecycle state. The literals are user-facing and
// persisted verbatim, so they must not be renamed.
type Status string

const (
	// StatusPending is the initial state of every shipment.
	StatusPending Status = "En espera"
	// StatusInTransit marks a shipment assigned to a route.
	StatusInTransit Status = "En transito"
	// StatusDelivered is terminal: no transition may leave it.
	StatusDelivered Status = "Entregado"
)

var (
	ErrUnknownStatus     = errors.New("unknown shipment status")
	ErrSameStatus        = errors.New("shipment is already in that status")
	ErrShipmentDelivered = errors.New("a delivered shipment can no longer change status")
)

// KnownStatuses lists every recognized status value.
func KnownStatuses() []Status {
	return []Status{StatusPending, StatusInTransit, StatusDelivered}
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusInTransit, StatusDelivered:
		return Status(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// Terminal reports whether no transition may leave the status.
func (s Status) Terminal() bool { return s == StatusDelivered }

// ValidateTransition applies the transition policy: self-transitions and
// transitions out of the terminal state are rejected, every other move
// between recognized states is allowed. The relaxed ordering is deliberate.
func (s Status) ValidateTransition(next Status) error {
	if s == next {
		return fmt.Errorf("%w: %s", ErrSameStatus, s)
	}
	if s.Terminal() {
		return ErrShipmentDelivered
	}
	return nil
}

// StatusRecord is one entry of a shipment's append-only status history.
// The latest record by Timestamp is the shipment's current status.
type StatusRecord struct {
	ID         int64
	ShipmentID int64
	Status     Status
	Comment    string
	Timestamp  time.Time
	CreatedBy  int64
	// UserName is the creator's display name, denormalized at read time.
	UserName string
}
