// Package remote is the storefront's HTTP façade over the catalog, auth and
// payment endpoints. Operations never return Go errors: every failure, from a
// refused connection to a success=false body, comes back as a failed Result.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 1 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout bounds every call. It never modifies a client passed through
// WithHTTPClient; New applies it to a copy.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// do performs one request. It makes exactly one attempt.
func (c *Client) do(ctx context.Context, method, path string, payload any, token string) ([]byte, *ErrorInfo) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &ErrorInfo{Kind: ErrDecode, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &ErrorInfo{Kind: ErrNetwork, Message: "build request", Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("remote request failed")
		return nil, &ErrorInfo{Kind: ErrNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrorInfo{Kind: ErrNetwork, Status: resp.StatusCode, Message: "read response", Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", requestID).
		Msg("remote request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrorInfo{
			Kind:    ErrStatus,
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}

	if flag := gjson.GetBytes(raw, "success"); flag.Exists() && !flag.Bool() {
		return nil, &ErrorInfo{
			Kind:    ErrRejected,
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}

	return raw, nil
}

// errorMessage pulls a human readable reason out of an error body. FastAPI
// style bodies put it in detail, either as a string or a list of field errors.
func errorMessage(body []byte, status int) string {
	if !gjson.ValidBytes(body) {
		return http.StatusText(status)
	}
	for _, path := range []string{"detail.0.msg", "detail", "message", "error"} {
		if value := gjson.GetBytes(body, path); value.Exists() && value.Type == gjson.String && value.Str != "" {
			return value.Str
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

func decode[T any](raw []byte, into *T) *ErrorInfo {
	if err := json.Unmarshal(raw, into); err != nil {
		return &ErrorInfo{Kind: ErrDecode, Message: "decode response", Err: err}
	}
	return nil
}
