//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/envioslab/shipment-api/test/pact"

	shipmenthttp "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/http"
	shipmentmemory "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/memory"
	shipmentobs "github.com/envioslab/shipment-api/internal/domains/shipments/adapters/observability"
	shipmentapp "github.com/envioslab/shipment-api/internal/domains/shipments/application"
	shipmentdomain "github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	shipmentports "github.com/envioslab/shipment-api/internal/domains/shipments/ports"
	userhttp "github.com/envioslab/shipment-api/internal/domains/users/adapters/http"
	"github.com/envioslab/shipment-api/internal/domains/users/adapters/token"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestShipmentAPIProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateShipmentInTransit: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedInTransitShipment(t)
			}
			return nil, nil
		},
		pacttest.StateShipmentMissing: func(_ bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	shipments *shipmentmemory.ShipmentRepository
	statuses  *shipmentmemory.StatusStore
	server    *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	statuses := shipmentmemory.NewStatusStore()
	shipments := shipmentmemory.NewShipmentRepository(statuses)
	service := shipmentobs.New(shipmentapp.NewService(
		shipments,
		shipmentmemory.NewRouteRepository(),
		shipmentmemory.NewTransporterRepository(),
		shipmentmemory.NewAssignmentRepository(),
		statuses,
	))

	issuer := token.NewJWTIssuer("pact-secret")
	actor := func(c *gin.Context) (shipmentports.Actor, bool) {
		identity, ok := userhttp.IdentityFrom(c)
		if !ok {
			return shipmentports.Actor{}, false
		}
		return shipmentports.Actor{UserID: identity.UserID, Admin: identity.Admin()}, true
	}

	router := gin.New()
	router.Use(gin.Recovery())
	shipmenthttp.NewShipmentAPI(service, actor).
		Register(router, userhttp.RequireAuth(issuer), userhttp.RequireAdmin())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		shipments: shipments,
		statuses:  statuses,
		server:    server,
	}
}

// seedInTransitShipment is idempotent: repeated setups for the same state
// reuse the existing shipment.
func (a *contractProviderApp) seedInTransitShipment(t testing.TB) {
	t.Helper()
	ctx := context.Background()

	if _, err := a.shipments.GetByTrackingCode(ctx, pacttest.ExistingTrackingCode); err == nil {
		return
	}

	shipment, err := shipmentdomain.NewShipment(7, 10, 20, 1, 500,
		"30x20x10", "Ana Gómez", "Calle 12 #3-45", "3001234567", "CC-1020")
	require.NoError(t, err)
	shipment.TrackingCode = pacttest.ExistingTrackingCode

	created, err := a.shipments.Create(ctx, shipment)
	require.NoError(t, err)
	require.NoError(t, a.statuses.CreateInitialStatus(ctx, created.ID, created.UserID))
	require.NoError(t, a.statuses.CreateStatus(ctx, &shipmentdomain.StatusRecord{
		ShipmentID: created.ID,
		Status:     shipmentdomain.StatusInTransit,
		Comment:    "Asignado a la ruta Bogotá - Medellín",
		CreatedBy:  2,
	}))
}
