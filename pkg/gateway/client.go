// Package gateway holds the remote adapters for each entity kind: thin
// JSON-over-HTTP pass-throughs to the backend REST API. The adapters own no
// state; everything they return is published to the store by their callers.
package gateway

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

	"github.com/google/uuid"

	llerrors "github.com/learnloop/learnloop/pkg/errors"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/metrics"
)

const defaultTimeout = 30 * time.Second

// RemoteError is a rejected or failed gateway call. Status is the HTTP
// status code, or 0 when the transport failed before a response arrived
// (timeouts included — callers treat both identically).
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote call failed: %s", e.Message)
	}
	return fmt.Sprintf("remote call rejected (%d): %s", e.Status, e.Message)
}

// TokenSource supplies the bearer token for authenticated calls.
// *session.Manager satisfies it.
type TokenSource interface {
	AccessToken() string
}

// Client is the shared HTTP plumbing under every adapter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource attaches the session token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger attaches a structured logger for request events.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient builds a gateway client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one JSON round-trip. kind and op label metrics and logs.
func (c *Client) do(ctx context.Context, kind, op, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", kind, op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", kind, op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GatewayLatency.WithLabelValues(kind, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(kind, op, "transport_error").Inc()
		c.logger.Warn(logging.CategoryGateway, "request_failed", "transport error", map[string]any{
			"kind": kind, "op": op, "error": err.Error(),
		})
		return &RemoteError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	metrics.GatewayRequests.WithLabelValues(kind, op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		message := parseErrorMessage(raw)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn(logging.CategoryGateway, "request_rejected", "backend rejected request", map[string]any{
			"kind": kind, "op": op, "status": resp.StatusCode, "message": message,
		})
		return &RemoteError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return llerrors.Wrap(err, llerrors.ErrCodeRemoteDecode,
			fmt.Sprintf("decode %s %s response", kind, op))
	}
	return nil
}

// parseErrorMessage pulls a message out of a JSON error body when there is one.
func parseErrorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
