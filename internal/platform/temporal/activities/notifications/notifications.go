// Package notifications implements the Temporal activities behind the
// notification workflows.
package notifications

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

const (
	// SendCreationEmailActivityName delivers the shipment creation email.
	SendCreationEmailActivityName = "shipments.activities.SendCreationEmail"
	// SendAssignmentEmailActivityName delivers the route assignment email.
	SendAssignmentEmailActivityName = "shipments.activities.SendAssignmentEmail"
)

// Activities groups the notification delivery activities.
type Activities struct {
	notifier ports.Notifier
}

// NewActivities wires the notifier into the Temporal activities bundle.
func NewActivities(notifier ports.Notifier) *Activities {
	return &Activities{notifier: notifier}
}

// SendCreationEmail delivers the shipment creation email.
func (a *Activities) SendCreationEmail(ctx context.Context, input ports.CreationNotification) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("creation email activity not initialized", "trackingCode", input.TrackingCode)
		return errors.New("creation email activity not initialized")
	}
	logger.Info("SendCreationEmail activity started", "trackingCode", input.TrackingCode)
	if err := a.notifier.SendShipmentCreationNotification(ctx, input); err != nil {
		logger.Error("SendCreationEmail activity failed", "trackingCode", input.TrackingCode, "error", err)
		return err
	}
	logger.Info("SendCreationEmail activity completed", "trackingCode", input.TrackingCode)
	return nil
}

// SendAssignmentEmail delivers the route assignment email.
func (a *Activities) SendAssignmentEmail(ctx context.Context, input ports.AssignmentNotification) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("assignment email activity not initialized", "trackingCode", input.TrackingCode)
		return errors.New("assignment email activity not initialized")
	}
	logger.Info("SendAssignmentEmail activity started", "trackingCode", input.TrackingCode)
	if err := a.notifier.SendShipmentAssignmentNotification(ctx, input); err != nil {
		logger.Error("SendAssignmentEmail activity failed", "trackingCode", input.TrackingCode, "error", err)
		return err
	}
	logger.Info("SendAssignmentEmail activity completed", "trackingCode", input.TrackingCode)
	return nil
}
