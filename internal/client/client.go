package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"manometer-backend/internal/dashboard"
	"manometer-backend/internal/model"
)

// DefaultTimeout bounds a single API call. Store operations on the server
// may take up to 45 seconds.
const DefaultTimeout = 50 * time.Second

// response is the JSON envelope returned by the gauge API.
type response struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Details   string          `json:"details"`
	Message   string          `json:"message"`
	DeletedID string          `json:"deletedId"`
}

// APIError is a non-success answer from the gauge API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the gauge JSON API. It does not retry.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		logger:     logger,
	}
}

// do runs the request and unwraps the envelope. out may be nil.
func (c *Client) do(req *resty.Request, method, path string, out any) (*response, error) {
	var env response
	resp, err := req.
		SetResult(&env).
		SetError(&env).
		Execute(method, path)
	if err != nil {
		c.logger.Error("gauge API call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to call gauge API: %w", err)
	}

	if resp.IsError() || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: env.Error, Details: env.Details}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		c.logger.Warn("gauge API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", apiErr.StatusCode),
			zap.String("msg", apiErr.Message),
		)
		return nil, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s %s: %w", method, path, err)
		}
	}
	return &env, nil
}

// List fetches every gauge.
func (c *Client) List(ctx context.Context) ([]model.Gauge, error) {
	gauges := make([]model.Gauge, 0)
	if _, err := c.do(c.httpClient.R().SetContext(ctx), resty.MethodGet, "/gauges", &gauges); err != nil {
		return nil, err
	}
	return gauges, nil
}

// Create registers a new gauge.
func (c *Client) Create(ctx context.Context, fields model.GaugeFields) (*model.Gauge, error) {
	var gauge model.Gauge
	req := c.httpClient.R().SetContext(ctx).SetBody(fields)
	if _, err := c.do(req, resty.MethodPost, "/gauges", &gauge); err != nil {
		return nil, err
	}
	return &gauge, nil
}

type updateBody struct {
	ID string `json:"id"`
	model.GaugeFields
}

// Update merges fields into the gauge with the given id.
func (c *Client) Update(ctx context.Context, id string, fields model.GaugeFields) (*model.Gauge, error) {
	var gauge model.Gauge
	req := c.httpClient.R().SetContext(ctx).SetBody(updateBody{ID: id, GaugeFields: fields})
	if _, err := c.do(req, resty.MethodPut, "/gauges", &gauge); err != nil {
		return nil, err
	}
	return &gauge, nil
}

// Delete removes a gauge and returns the deleted identifier.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	req := c.httpClient.R().SetContext(ctx).SetQueryParam("id", id)
	env, err := c.do(req, resty.MethodDelete, "/gauges", nil)
	if err != nil {
		return "", err
	}
	return env.DeletedID, nil
}

// Summary fetches the dashboard counters computed by the server.
func (c *Client) Summary(ctx context.Context) (dashboard.Summary, error) {
	var s dashboard.Summary
	_, err := c.do(c.httpClient.R().SetContext(ctx), resty.MethodGet, "/gauges/summary", &s)
	return s, err
}
