// Package api boots the shipment HTTP API: observability, storage, cache,
// auth, notifications, and routing.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	redisadapter "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/cache/redis"
	shipmenthttp "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/http"
	shipmentmemory "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/memory"
	smtpnotifier "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/notifications/smtp"
	shipmentobs "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/observability"
	"github.com/envioslab/shipment-api/internal/domains/shipments/adapters/persistence/cached"
	shipmentpostgres "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/persistence/postgres"
	shipmentworkflows "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/workflows"
	shipmentapp "github.com/envioslab/shipment-api/internal/domains/shipments/application"
	shipmentports "github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	"github.com/envioslab/shipment-api/internal/domains/users/adapters/directory"
	userhttp "github.com/envioslab/shipment-api/internal/domains/users/adapters/http"
	usermemory "github.com/envioslab/shipment-api/internal/domains/users/adapters/memory"
	userpostgres "github.com/envioslab/shipment-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/envioslab/shipment-api/internal/domains/users/adapters/token"
	userapp "github.com/envioslab/shipment-api/internal/domains/users/application"
	userports "github.com/envioslab/shipment-api/internal/domains/users/ports"
	"github.com/envioslab/shipment-api/internal/platform/migrations"
	platformobservability "github.com/envioslab/shipment-api/internal/platform/observability"
	platformpostgres "github.com/envioslab/shipment-api/internal/platform/postgres"
	platformredis "github.com/envioslab/shipment-api/internal/platform/redis"
)

// Run boots the shipment HTTP API.
func Run(ctx context.Context) error {
	const serviceName = "shipment-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	redisClient, cleanupRedis := platformredis.ConnectFromEnv(ctx, logger)
	defer cleanupRedis()

	userRepo := buildUserRepository(db, logger)
	tokens := token.NewJWTIssuer(cfg.JWTSecret)
	userService := userapp.NewService(userRepo, tokens, userapp.WithLogger(logger))

	dispatcher, cleanupDispatcher := buildDispatcher(cfg, instruments)
	defer cleanupDispatcher()

	shipmentService := buildShipmentService(cfg, db, redisClient, userRepo, dispatcher, instruments)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	auth := userhttp.RequireAuth(tokens)
	admin := userhttp.RequireAdmin()
	userhttp.NewAuthAPI(userService).Register(router)
	shipmenthttp.NewShipmentAPI(shipmentService, actorFromContext).Register(router, auth, admin)

	addr := ":" + cfg.Port
	logger.Info("shipment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("shipment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func actorFromContext(c *gin.Context) (shipmentports.Actor, bool) {
	identity, ok := userhttp.IdentityFrom(c)
	if !ok {
		return shipmentports.Actor{}, false
	}
	return shipmentports.Actor{UserID: identity.UserID, Admin: identity.Admin()}, true
}

func buildUserRepository(db *gorm.DB, logger *slog.Logger) userports.UserRepository {
	if db == nil {
		logger.Warn("user repository running in-memory")
		return usermemory.NewUserRepository()
	}
	return userpostgres.NewUserRepository(db)
}

func buildShipmentService(
	cfg Config,
	db *gorm.DB,
	redisClient *goredis.Client,
	userRepo userports.UserRepository,
	dispatcher shipmentports.NotificationDispatcher,
	instruments *platformobservability.Instruments,
) shipmentports.Service {
	logger := instruments.Logger

	var (
		shipmentRepo    shipmentports.ShipmentRepository
		routeRepo       shipmentports.RouteRepository
		transporterRepo shipmentports.TransporterRepository
		assignmentRepo  shipmentports.AssignmentRepository
		statusStore     shipmentports.StatusRepository
	)
	if db != nil {
		shipmentRepo = shipmentpostgres.NewShipmentRepository(db)
		routeRepo = shipmentpostgres.NewRouteRepository(db)
		transporterRepo = shipmentpostgres.NewTransporterRepository(db)
		assignmentRepo = shipmentpostgres.NewAssignmentRepository(db)
		statusStore = shipmentpostgres.NewStatusRepository(db)
	} else {
		memStatuses := shipmentmemory.NewStatusStore()
		shipmentRepo = shipmentmemory.NewShipmentRepository(memStatuses)
		routeRepo = shipmentmemory.NewRouteRepository()
		transporterRepo = shipmentmemory.NewTransporterRepository()
		assignmentRepo = shipmentmemory.NewAssignmentRepository()
		statusStore = memStatuses
	}

	cacheTTL := redisadapter.DefaultTTL
	if cfg.CacheTTLSeconds > 0 {
		cacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	var statusCache shipmentports.StatusCache
	if redisClient != nil {
		statusCache = redisadapter.NewStatusCache(redisClient, redisadapter.WithTTL(cacheTTL))
	} else {
		statusCache = shipmentmemory.NewStatusCache(cacheTTL)
	}
	statuses := cached.NewStatusRepository(statusStore, shipmentRepo, statusCache, cached.WithLogger(logger))

	core := shipmentapp.NewService(
		shipmentRepo, routeRepo, transporterRepo, assignmentRepo, statuses,
		shipmentapp.WithLogger(logger),
		shipmentapp.WithUserDirectory(directory.New(userRepo)),
		shipmentapp.WithNotificationDispatcher(dispatcher),
	)
	return shipmentobs.New(
		core,
		shipmentobs.WithLogger(logger),
		shipmentobs.WithTracer(instruments.Tracer("internal.shipments.application")),
		shipmentobs.WithMeter(instruments.Meter("internal.shipments.application")),
	)
}

func buildDispatcher(cfg Config, instruments *platformobservability.Instruments) (shipmentports.NotificationDispatcher, func()) {
	logger := instruments.Logger
	notifier := smtpnotifier.NewNotifier(cfg.SMTP)
	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal unavailable, dispatching notifications inline", slog.String("error", err.Error()))
		return shipmentworkflows.NewInlineNotificationDispatcher(notifier, logger), func() {}
	}
	logger.Info("Temporal notification workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return shipmentworkflows.NewTemporalNotificationDispatcher(temporalClient), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
