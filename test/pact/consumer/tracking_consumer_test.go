//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/envioslab/shipment-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type statusPayload struct {
	ShipmentID   int64         `json:"shipment_id"`
	TrackingCode string        `json:"tracking_code"`
	Current      recordPayload `json:"current"`
}

type historyPayload struct {
	ShipmentID   int64           `json:"shipment_id"`
	TrackingCode string          `json:"tracking_code"`
	History      []recordPayload `json:"history"`
}

type recordPayload struct {
	Status    string `json:"status"`
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestTrackingPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	statusMatcher := matchers.Map{
		"status":    matchers.Term("En transito", "En espera|En transito|Entregado"),
		"comment":   matchers.Like("Asignado a la ruta Bogotá - Medellín"),
		"timestamp": matchers.Regex("2026-08-30T10:00:00Z", `\d{4}-\d{2}-\d{2}T.*`),
	}
	statusBodyMatcher := matchers.Map{
		"shipment_id":   matchers.Like(1),
		"tracking_code": matchers.Term(pacttest.ExistingTrackingCode, "[A-Z0-9]{8}"),
		"current":       statusMatcher,
	}
	historyBodyMatcher := matchers.Map{
		"shipment_id":   matchers.Like(1),
		"tracking_code": matchers.Term(pacttest.ExistingTrackingCode, "[A-Z0-9]{8}"),
		"history":       matchers.EachLike(statusMatcher, 1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateShipmentInTransit).
		UponReceiving("a public status lookup for an in-transit shipment").
		WithRequest("GET", fmt.Sprintf("/shipments/tracking/%s/status", pacttest.ExistingTrackingCode)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(statusBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateShipmentInTransit).
		UponReceiving("a public history lookup for an in-transit shipment").
		WithRequest("GET", fmt.Sprintf("/shipments/tracking/%s/history", pacttest.ExistingTrackingCode)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(historyBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateShipmentMissing).
		UponReceiving("a status lookup for an unknown tracking code").
		WithRequest("GET", fmt.Sprintf("/shipments/tracking/%s/status", pacttest.MissingTrackingCode)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newTrackingClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := client.TrackStatus(ctx, pacttest.ExistingTrackingCode)
		if err != nil {
			return fmt.Errorf("track status: %w", err)
		}
		if status == nil || status.TrackingCode != pacttest.ExistingTrackingCode {
			return fmt.Errorf("expected tracking code %s, got %+v", pacttest.ExistingTrackingCode, status)
		}
		if status.Current.Status == "" {
			return fmt.Errorf("expected current status to be set")
		}

		history, err := client.TrackHistory(ctx, pacttest.ExistingTrackingCode)
		if err != nil {
			return fmt.Errorf("track history: %w", err)
		}
		if history == nil || len(history.History) == 0 {
			return fmt.Errorf("expected non-empty status history")
		}

		if _, err := client.TrackStatus(ctx, pacttest.MissingTrackingCode); err == nil {
			return fmt.Errorf("expected 404 for tracking code %s", pacttest.MissingTrackingCode)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type trackingClient struct {
	baseURL    string
	httpClient *http.Client
}

func newTrackingClient(config pactconsumer.MockServerConfig) *trackingClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &trackingClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *trackingClient) TrackStatus(ctx context.Context, code string) (*statusPayload, error) {
	var payload statusPayload
	if err := c.getJSON(ctx, fmt.Sprintf("%s/shipments/tracking/%s/status", c.baseURL, code), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *trackingClient) TrackHistory(ctx context.Context, code string) (*historyPayload, error) {
	var payload historyPayload
	if err := c.getJSON(ctx, fmt.Sprintf("%s/shipments/tracking/%s/history", c.baseURL, code), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *trackingClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
