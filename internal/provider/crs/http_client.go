package crs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/errs"
)

// HTTPClient is the live CRS connector: JSON over HTTPS authenticated with
// API-key, hotel-id and channel-id headers. Non-2xx responses surface as
// *HTTPError so the retry layer can classify them.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	hotelID   string
	channelID string
	client    *http.Client
}

func NewHTTPClient(cfg config.CRSConfig) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		hotelID:   cfg.HotelID,
		channelID: cfg.ChannelID,
		client: &http.Client{
			// Per-attempt timeouts are owned by the retry executor; this is
			// a hard backstop against a wedged transport.
			Timeout: 2 * cfg.Timeout,
		},
	}
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	var resp AvailabilityResponse
	if err := c.post(ctx, "/api/v1/availability", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetPricing(ctx context.Context, req PricingRequest) (*PricingResponse, error) {
	var resp PricingResponse
	if err := c.post(ctx, "/api/v1/pricing", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CreateReservation(ctx context.Context, req ReservationRequest) (*ReservationResponse, error) {
	var resp ReservationResponse
	if err := c.post(ctx, "/api/v1/reservations", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode crs request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build crs request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("X-Hotel-ID", c.hotelID)
	httpReq.Header.Set("X-Channel-ID", c.channelID)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read crs response")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &HTTPError{StatusCode: httpResp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errs.Wrap(err, "failed to decode crs response")
	}
	return nil
}
