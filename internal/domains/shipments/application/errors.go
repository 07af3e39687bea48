package application

import (
	"errors"
	"fmt"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
)

var (
	// ErrInvalidInput signals the request violated a creation invariant.
	ErrInvalidInput = errors.New("invalid shipment input")
	// ErrInvalidStatus signals an unrecognized status value.
	ErrInvalidStatus = errors.New("invalid shipment status")
	// ErrInvalidTransition signals a self-transition or an attempt to leave
	// the terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTransporterUnavailable signals the transporter's availability flag is off.
	ErrTransporterUnavailable = errors.New("transporter is not available")
	// ErrInsufficientCapacity signals the shipment outweighs the transporter's
	// remaining capacity.
	ErrInsufficientCapacity = errors.New("transporter lacks available capacity for this shipment")
	// ErrAlreadyAssigned signals the shipment already has a pending assignment.
	ErrAlreadyAssigned = errors.New("shipment is already assigned to a route")
	// ErrAccessDenied signals a non-admin reading someone else's shipment.
	ErrAccessDenied = errors.New("not allowed to view this shipment")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	if errors.Is(err, domain.ErrSameStatus) || errors.Is(err, domain.ErrShipmentDelivered) {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	if errors.Is(err, domain.ErrInvalidWeight) ||
		errors.Is(err, domain.ErrMissingRecipient) ||
		errors.Is(err, domain.ErrMissingLocations) ||
		errors.Is(err, domain.ErrMissingProductType) ||
		errors.Is(err, domain.ErrMissingOwner) ||
		errors.Is(err, domain.ErrMissingTrackingCode) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
