// Package workflows provides the notification dispatch strategies: durable
// delivery through Temporal or a detached goroutine fallback.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	notifyworkflows "github.com/envioslab/shipment-api/internal/durable/temporal/workflows/notifications"
)

var (
	_ ports.NotificationDispatcher = (*TemporalNotificationDispatcher)(nil)
	_ ports.NotificationDispatcher = (*InlineNotificationDispatcher)(nil)
)

// TemporalNotificationDispatcher starts notification workflows on a Temporal
// cluster. The request returns as soon as the workflow is accepted.
type TemporalNotificationDispatcher struct {
	client    client.Client
	taskQueue string
}

// NewTemporalNotificationDispatcher wires a Temporal client into the dispatcher.
func NewTemporalNotificationDispatcher(c client.Client) *TemporalNotificationDispatcher {
	return &TemporalNotificationDispatcher{client: c, taskQueue: notifyworkflows.NotificationTaskQueue}
}

func (d *TemporalNotificationDispatcher) DispatchCreationNotification(ctx context.Context, n ports.CreationNotification) error {
	if d == nil || d.client == nil {
		return errors.New("temporal notification dispatcher not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("shipment-notify-created-%s-%d", n.TrackingCode, time.Now().UnixNano()),
		TaskQueue: d.taskQueue,
	}
	_, err := d.client.ExecuteWorkflow(ctx, options, notifyworkflows.CreationNotificationWorkflowName, n)
	return err
}

func (d *TemporalNotificationDispatcher) DispatchAssignmentNotification(ctx context.Context, n ports.AssignmentNotification) error {
	if d == nil || d.client == nil {
		return errors.New("temporal notification dispatcher not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("shipment-notify-assigned-%s-%d", n.TrackingCode, time.Now().UnixNano()),
		TaskQueue: d.taskQueue,
	}
	_, err := d.client.ExecuteWorkflow(ctx, options, notifyworkflows.AssignmentNotificationWorkflowName, n)
	return err
}

// InlineNotificationDispatcher sends emails from a detached goroutine, useful
// for dev setups without a Temporal cluster. Failures are logged and lost.
type InlineNotificationDispatcher struct {
	notifier ports.Notifier
	logger   *slog.Logger
	timeout  time.Duration
}

// NewInlineNotificationDispatcher wraps the notifier for fire-and-forget delivery.
func NewInlineNotificationDispatcher(notifier ports.Notifier, logger *slog.Logger) *InlineNotificationDispatcher {
	return &InlineNotificationDispatcher{notifier: notifier, logger: logger, timeout: 30 * time.Second}
}

func (d *InlineNotificationDispatcher) DispatchCreationNotification(ctx context.Context, n ports.CreationNotification) error {
	if d == nil || d.notifier == nil {
		return errors.New("inline notification dispatcher not configured")
	}
	go func() {
		// The request context ends with the response; delivery gets its own deadline.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := d.notifier.SendShipmentCreationNotification(sendCtx, n); err != nil {
			d.logError(sendCtx, "creation notification delivery failed", n.TrackingCode, err)
		}
	}()
	return nil
}

func (d *InlineNotificationDispatcher) DispatchAssignmentNotification(ctx context.Context, n ports.AssignmentNotification) error {
	if d == nil || d.notifier == nil {
		return errors.New("inline notification dispatcher not configured")
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := d.notifier.SendShipmentAssignmentNotification(sendCtx, n); err != nil {
			d.logError(sendCtx, "assignment notification delivery failed", n.TrackingCode, err)
		}
	}()
	return nil
}

func (d *InlineNotificationDispatcher) logError(ctx context.Context, msg, trackingCode string, err error) {
	if d.logger == nil {
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelError, msg,
		slog.String("tracking_code", trackingCode), slog.String("error", err.Error()))
}
