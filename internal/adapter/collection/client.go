// Package collection is the HTTP client for the collection backend's collector API.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/metrics"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/version"
)

const (
	confirmedPath = "/api/collector/requests/confirmed"
	completePath  = "/api/collector/requests/%s/complete"

	opListConfirmed = "list_confirmed"
	opComplete      = "complete"
	opReachable     = "reachable"

	maxErrorBody = 64 << 10
)

// Client implements domain.RequestAPI over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.BackendMetrics
}

// NewClient creates a client for the backend at baseURL. A zero timeout means
// calls wait as long as the context allows.
func NewClient(baseURL string, timeout time.Duration, m *metrics.BackendMetrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

func (c *Client) ListConfirmed(ctx context.Context, token string) ([]domain.CollectionRequest, error) {
	var items []json.RawMessage
	if err := c.do(ctx, opListConfirmed, http.MethodGet, confirmedPath, token, nil, &items); err != nil {
		return nil, err
	}

	requests := make([]domain.CollectionRequest, 0, len(items))
	for i, raw := range items {
		var item wireRequest
		if err := json.Unmarshal(raw, &item); err != nil {
			slog.WarnContext(ctx, "Skipping malformed confirmed request", "index", i, "error", err)
			continue
		}
		requests = append(requests, item.toDomain())
	}
	return requests, nil
}

// Complete marks requestID completed. The updated request is returned when the
// backend answers with a JSON object, nil otherwise.
func (c *Client) Complete(ctx context.Context, token, requestID string) (*domain.CollectionRequest, error) {
	path := fmt.Sprintf(completePath, url.PathEscape(requestID))

	var raw json.RawMessage
	if err := c.do(ctx, opComplete, http.MethodPut, path, token, []byte("{}"), &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	var item wireRequest
	if len(raw) == 0 || raw[0] != '{' || json.Unmarshal(raw, &item) != nil {
		return nil, nil
	}
	updated := item.toDomain()
	return &updated, nil
}

// Reachable reports whether the backend serves the collector API. It calls the
// confirmed list without credentials: a 401 or any other answer below 500 proves
// the route is up, while a 5xx or a transport error does not.
func (c *Client) Reachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+confirmedPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(opReachable, metrics.OutcomeTransport, time.Since(start))
		return fmt.Errorf("collection backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode >= http.StatusInternalServerError {
		c.metrics.Observe(opReachable, metrics.OutcomeAPIError, time.Since(start))
		return fmt.Errorf("collection backend unhealthy: status %d", resp.StatusCode)
	}
	c.metrics.Observe(opReachable, metrics.OutcomeSuccess, time.Since(start))
	return nil
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(operation, metrics.OutcomeTransport, time.Since(start))
		slog.WarnContext(ctx, "Backend request failed", "operation", operation, "error", err)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.Observe(operation, metrics.OutcomeAPIError, time.Since(start))
		apiErr := decodeAPIError(resp)
		slog.WarnContext(ctx, "Backend rejected request",
			"operation", operation, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	c.metrics.Observe(operation, metrics.OutcomeSuccess, time.Since(start))
	slog.DebugContext(ctx, "Backend request succeeded", "operation", operation, "status", resp.StatusCode)

	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *domain.APIError {
	apiErr := &domain.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

// IsAPIError reports whether err is a rejection by the backend rather than a
// transport failure.
func IsAPIError(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr)
}
