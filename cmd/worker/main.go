// The worker consumes the notification task queue and delivers shipment
// emails through the durable workflows.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	smtpnotifier "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/notifications/smtp"
	notifyworkflows "github.com/envioslab/shipment-api/internal/durable/temporal/workflows/notifications"
	platformobservability "github.com/envioslab/shipment-api/internal/platform/observability"
	notifyactivities "github.com/envioslab/shipment-api/internal/platform/temporal/activities/notifications"
)

func main() {
	ctx := context.Background()
	const serviceName = "shipment-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	notifier := smtpnotifier.NewNotifier(smtpnotifier.Config{
		Host:     os.Getenv("EMAIL_HOST"),
		Port:     envOrDefault("EMAIL_PORT", "587"),
		Username: os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASSWORD"),
		From:     envOrDefault("EMAIL_FROM", "notificaciones@envioslab.com"),
	})
	activities := notifyactivities.NewActivities(notifier)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, notifyworkflows.NotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(notifyworkflows.CreationNotificationWorkflow, workflow.RegisterOptions{Name: notifyworkflows.CreationNotificationWorkflowName})
	w.RegisterWorkflowWithOptions(notifyworkflows.AssignmentNotificationWorkflow, workflow.RegisterOptions{Name: notifyworkflows.AssignmentNotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.SendCreationEmail, activity.RegisterOptions{Name: notifyactivities.SendCreationEmailActivityName})
	w.RegisterActivityWithOptions(activities.SendAssignmentEmail, activity.RegisterOptions{Name: notifyactivities.SendAssignmentEmailActivityName})

	logger.Info("worker listening", slog.String("taskQueue", notifyworkflows.NotificationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
