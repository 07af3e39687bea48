// Package notifications holds the durable workflows that deliver shipment
// lifecycle emails outside the request path.
package notifications

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	notifyactivities "github.com/envioslab/shipment-api/internal/platform/temporal/activities/notifications"
)

const (
	// CreationNotificationWorkflowName is the public identifier for registering the workflow.
	CreationNotificationWorkflowName = "shipments.workflows.CreationNotification"
	// AssignmentNotificationWorkflowName is the public identifier for registering the workflow.
	AssignmentNotificationWorkflowName = "shipments.workflows.AssignmentNotification"
	// NotificationTaskQueue is the queue consumed by the worker processing notification workflows.
	NotificationTaskQueue = "SHIPMENT_NOTIFICATIONS"
)

func activityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
}

// CreationNotificationWorkflow delivers the shipment creation email.
func CreationNotificationWorkflow(ctx workflow.Context, input ports.CreationNotification) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("CreationNotificationWorkflow started", "trackingCode", input.TrackingCode)
	ctx = activityOptions(ctx)
	if err := workflow.ExecuteActivity(ctx, notifyactivities.SendCreationEmailActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("CreationNotificationWorkflow failed", "trackingCode", input.TrackingCode, "error", err)
		return err
	}
	logger.Info("CreationNotificationWorkflow completed", "trackingCode", input.TrackingCode)
	return nil
}

// AssignmentNotificationWorkflow delivers the route assignment email.
func AssignmentNotificationWorkflow(ctx workflow.Context, input ports.AssignmentNotification) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("AssignmentNotificationWorkflow started", "trackingCode", input.TrackingCode)
	ctx = activityOptions(ctx)
	if err := workflow.ExecuteActivity(ctx, notifyactivities.SendAssignmentEmailActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("AssignmentNotificationWorkflow failed", "trackingCode", input.TrackingCode, "error", err)
		return err
	}
	logger.Info("AssignmentNotificationWorkflow completed", "trackingCode", input.TrackingCode)
	return nil
}
