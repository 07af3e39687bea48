package ports

import "context"

// AssignmentNotification is the payload of the email sent to a shipment
// owner when their shipment is put on a route.
type AssignmentNotification struct {
	Email         string
	TrackingCode  string
	Origin        string
	Destination   string
	EstimatedTime string
}

// CreationNotification confirms a freshly registered shipment.
type CreationNotification struct {
	Email         string
	TrackingCode  string
	RecipientName string
}

// Notifier delivers user-facing notifications. Callers treat every failure
// as non-fatal: notification errors are logged and never propagated.
type Notifier interface {
	SendShipmentAssignmentNotification(ctx context.Context, n AssignmentNotification) error
	SendShipmentCreationNotification(ctx context.Context, n CreationNotification) error
}

// NotificationDispatcher detaches notification delivery from the request
// path. Implementations run inline in a goroutine or hand off to a durable
// worker; either way the caller returns before delivery completes.
type NotificationDispatcher interface {
	DispatchAssignmentNotification(ctx context.Context, n AssignmentNotification) error
	DispatchCreationNotification(ctx context.Context, n CreationNotification) error
}
