// Package gds is the adapter for the flight distribution provider
// (Amadeus self-service API shape): locations, offer search, pricing and
// order creation.
package gds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/logger"
	"travelbooking/pkg/metrics"
	"travelbooking/pkg/validation"
)

const (
	tokenPath     = "/v1/security/oauth2/token"
	locationsPath = "/v1/reference-data/locations"
	offersPath    = "/v2/shopping/flight-offers"
	pricingPath   = "/v1/shopping/flight-offers/pricing"
	ordersPath    = "/v1/booking/flight-orders"

	defaultMaxOffers = 20
	maxResponseBytes = 8 << 20
)

type Config struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	Timeout       time.Duration
	RatePerSecond float64
	MaxOffers     int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxOffers  int
	logger     logger.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// NewClient authenticates with the OAuth2 client-credentials grant. Tokens
// are fetched lazily and refreshed before expiry.
func NewClient(cfg Config, log logger.Logger, m *metrics.Metrics) *Client {
	base := &http.Client{Timeout: cfg.Timeout}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := cc.Client(ctx)
	httpClient.Timeout = cfg.Timeout
	return NewClientWithHTTP(httpClient, cfg, log, m)
}

// NewClientWithHTTP uses httpClient as-is; callers own authentication.
func NewClientWithHTTP(httpClient *http.Client, cfg Config, log logger.Logger, m *metrics.Metrics) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}
	maxOffers := cfg.MaxOffers
	if maxOffers <= 0 {
		maxOffers = defaultMaxOffers
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(limit, burst),
		maxOffers:  maxOffers,
		logger:     log,
		metrics:    m,
		tracer:     otel.Tracer("travelbooking/pkg/gds"),
	}
}

func (c *Client) SearchLocations(ctx context.Context, keyword string) ([]Location, error) {
	return c.searchLocations(ctx, "search_locations", keyword, "CITY,AIRPORT")
}

// SearchAirports narrows the lookup to airports only.
func (c *Client) SearchAirports(ctx context.Context, keyword string) ([]Location, error) {
	return c.searchLocations(ctx, "search_airports", keyword, "AIRPORT")
}

func (c *Client) searchLocations(ctx context.Context, op, keyword, subType string) ([]Location, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperror.Validation("keyword is required")
	}

	q := url.Values{}
	q.Set("subType", subType)
	q.Set("keyword", strings.ToUpper(keyword))
	q.Set("page[limit]", "10")

	var resp dataEnvelope[[]Location]
	if err := c.do(ctx, op, http.MethodGet, locationsPath, q, nil, &resp); err != nil {
		c.logger.Error("location lookup failed",
			logger.Field{Key: "keyword", Value: keyword},
			logger.Field{Key: "error", Value: err},
		)
		return nil, upstreamError("location lookup failed", err)
	}
	if resp.Data == nil {
		return []Location{}, nil
	}
	return resp.Data, nil
}

// SearchOffers returns a NO_RESULTS error when the provider answers with an
// empty batch. Structurally invalid offers are dropped.
func (c *Client) SearchOffers(ctx context.Context, params SearchParams) (*OfferBatch, error) {
	params.Origin = strings.ToUpper(strings.TrimSpace(params.Origin))
	params.Destination = strings.ToUpper(strings.TrimSpace(params.Destination))
	if err := validation.Struct(params, "invalid flight search"); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("originLocationCode", params.Origin)
	q.Set("destinationLocationCode", params.Destination)
	q.Set("departureDate", params.DepartureDate)
	q.Set("adults", strconv.Itoa(params.Adults))
	q.Set("max", strconv.Itoa(c.maxOffers))
	if params.ReturnDate != "" {
		q.Set("returnDate", params.ReturnDate)
	}
	if params.CurrencyCode != "" {
		q.Set("currencyCode", strings.ToUpper(params.CurrencyCode))
	}

	var batch OfferBatch
	if err := c.do(ctx, "search_offers", http.MethodGet, offersPath, q, nil, &batch); err != nil {
		c.logger.Error("offer search failed",
			logger.Field{Key: "route", Value: params.Origin + "->" + params.Destination},
			logger.Field{Key: "error", Value: err},
		)
		return nil, upstreamError("flight search failed", err)
	}

	batch.Data = c.keepValid(batch.Data)
	if len(batch.Data) == 0 {
		return nil, apperror.NoResults("no flights found for the selected route and date")
	}
	batch.Meta.Count = len(batch.Data)
	return &batch, nil
}

// ConfirmPricing re-prices exactly one offer. A 4xx from the provider is
// surfaced as UPSTREAM_ERROR with ProviderStatus set.
func (c *Client) ConfirmPricing(ctx context.Context, offer FlightOffer) (*PricedOffer, error) {
	if err := offer.Validate(); err != nil {
		return nil, apperror.Validation("invalid flight offer").WithDetail(err.Error())
	}

	body := dataEnvelope[pricingRequest]{Data: pricingRequest{
		Type:         "flight-offers-pricing",
		FlightOffers: []FlightOffer{offer.Upstream()},
	}}

	var priced PricedOffer
	if err := c.do(ctx, "confirm_pricing", http.MethodPost, pricingPath, nil, body, &priced); err != nil {
		c.logger.Warn("pricing confirmation failed",
			logger.Field{Key: "offer_id", Value: offer.ID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, upstreamError("price confirmation failed", err)
	}
	if len(priced.Data.FlightOffers) == 0 {
		return nil, apperror.Upstream("price confirmation returned no offer")
	}
	return &priced, nil
}

// CreateOrder issues tickets. It is not idempotent and must be called at most
// once per paid booking attempt.
func (c *Client) CreateOrder(ctx context.Context, offer FlightOffer, travelers []Traveler, contacts []Contact) (*Order, error) {
	if err := offer.Validate(); err != nil {
		return nil, apperror.Validation("invalid flight offer").WithDetail(err.Error())
	}
	if len(travelers) == 0 {
		return nil, apperror.Validation("at least one traveler is required")
	}

	body := dataEnvelope[orderRequest]{Data: orderRequest{
		Type:         "flight-order",
		FlightOffers: []FlightOffer{offer.Upstream()},
		Travelers:    travelers,
		Contacts:     contacts,
	}}

	var resp dataEnvelope[Order]
	if err := c.do(ctx, "create_order", http.MethodPost, ordersPath, nil, body, &resp); err != nil {
		c.logger.Error("order creation failed",
			logger.Field{Key: "offer_id", Value: offer.ID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, bookingError(err)
	}
	return &resp.Data, nil
}

func (c *Client) keepValid(offers []FlightOffer) []FlightOffer {
	kept := offers[:0]
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			c.logger.Warn("dropping malformed offer",
				logger.Field{Key: "offer_id", Value: o.ID},
				logger.Field{Key: "reason", Value: err.Error()},
			)
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "gds."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("gds.operation", op)),
	)
	defer span.End()

	start := time.Now()
	status, err := c.roundTrip(ctx, method, path, query, in, out)
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.metrics.ObserveGDS(op, outcome, time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("gds: rate limit wait: %w", err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("gds: failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, fmt.Errorf("gds: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gds: external api call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("gds: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newProviderError(resp.StatusCode, raw)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("gds: failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
