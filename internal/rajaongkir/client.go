// Package rajaongkir is a client for the RajaOngkir shipping rate API.
//
// Every response is wrapped in a {"rajaongkir": {"status": ..., "results": ...}}
// envelope. The cost endpoint nests the figure we need four levels deep, so
// decoding walks the structure one level at a time and fails with an
// UpstreamError at the first missing level.
package rajaongkir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ongkir-service/internal/models"
	"ongkir-service/internal/util"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	apiKeyHeader = "key"

	// maxBodyBytes caps how much of a provider response is read
	maxBodyBytes = 4 << 20

	errMalformed         = "malformed response"
	errCostUnavailable   = "failed to calculate shipping cost"
	errCitiesUnavailable = "failed to fetch city list"
)

// City is one entry of the provider's city directory
type City struct {
	CityID     string `json:"city_id"`
	ProvinceID string `json:"province_id"`
	Province   string `json:"province"`
	Type       string `json:"type"`
	CityName   string `json:"city_name"`
	PostalCode string `json:"postal_code"`
}

// QuoteRequest describes a shipment to be priced
type QuoteRequest struct {
	Origin      string
	Destination string
	Weight      decimal.Decimal
	Courier     string
}

// Quote is the first service offered by the courier for a route
type Quote struct {
	Value   decimal.Decimal `json:"value"`
	Courier string          `json:"courier"`
	Service string          `json:"service,omitempty"`
	ETD     string          `json:"etd,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a RajaOngkir client. baseURL includes the account tier,
// e.g. https://api.rajaongkir.com/starter.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: util.GetLogger(),
	}
}

// ListCities returns the provider's full city directory
func (c *Client) ListCities(ctx context.Context) ([]City, error) {
	ctx, span := util.StartSpan(ctx, "RajaOngkir.ListCities")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/city", nil)
	if err != nil {
		return nil, fmt.Errorf("create city request: %w", err)
	}

	status, body, err := c.do(req, "city")
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		return nil, &models.UpstreamError{
			StatusCode:  status,
			Description: describe(body, errCitiesUnavailable),
			Body:        string(body),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.RajaOngkir == nil {
		return nil, &models.UpstreamError{Description: errMalformed, Body: string(body)}
	}

	var cities []City
	if len(env.RajaOngkir.Results) > 0 {
		if err := json.Unmarshal(env.RajaOngkir.Results, &cities); err != nil {
			return nil, &models.UpstreamError{Description: errMalformed, Body: string(body)}
		}
	}
	if cities == nil {
		cities = []City{}
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	return cities, nil
}

// ResolveCityID returns the id of the first city whose name matches name,
// ignoring case
func (c *Client) ResolveCityID(ctx context.Context, name string) (string, error) {
	cities, err := c.ListCities(ctx)
	if err != nil {
		return "", err
	}

	for _, city := range cities {
		if strings.EqualFold(city.CityName, name) {
			return city.CityID, nil
		}
	}

	return "", &models.NotFoundError{Entity: "city", Key: name}
}

// QuoteCost asks the provider for the shipping cost of a route
func (c *Client) QuoteCost(ctx context.Context, q QuoteRequest) (*Quote, error) {
	ctx, span := util.StartSpan(ctx, "RajaOngkir.QuoteCost")
	defer span.End()

	span.SetAttributes(
		attribute.String("quote.origin", q.Origin),
		attribute.String("quote.destination", q.Destination),
		attribute.String("quote.courier", q.Courier),
		attribute.String("quote.weight", q.Weight.String()),
	)

	form := url.Values{}
	form.Set("origin", q.Origin)
	form.Set("destination", q.Destination)
	form.Set("weight", q.Weight.String())
	form.Set("courier", q.Courier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create cost request: %w", err)
	}

	status, body, err := c.do(req, "cost")
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		description := describe(body, errCostUnavailable)
		c.logger.Error("Rate provider rejected cost request",
			zap.Int("status", status),
			zap.String("description", description))
		return nil, &models.UpstreamError{StatusCode: status, Description: description, Body: string(body)}
	}

	quote, err := decodeQuote(body)
	if err != nil {
		c.logger.Error("Rate provider returned unusable cost payload",
			zap.String("body", truncate(body, 512)))
		return nil, err
	}

	quote.Courier = q.Courier
	return quote, nil
}

// do sends req with the API key and returns the status and the body
func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	req.Header.Set(apiKeyHeader, c.apiKey)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.RateProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		return 0, nil, &models.NetworkError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		util.RateProviderRequestsTotal.WithLabelValues(op, "error").Inc()
		return 0, nil, &models.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	util.RateProviderRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	util.RateProviderLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	c.logger.Debug("Rate provider response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
