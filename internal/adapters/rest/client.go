package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// RemoteError is a failed HTTP exchange: either a non-2xx response
// (Status > 0) or a transport failure (Status == 0, Err set).
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client issues JSON requests against the events service. Every request
// carries the authorization value computed once at startup from the launch
// context. Callers must not assume partial success on error: a non-nil error
// means no usable response body was decoded.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client for the given base URL. The auth value is sent
// verbatim in the Authorization header on every request. A nil http.Client
// falls back to http.DefaultClient; no retry or timeout policy is added
// beyond what the transport provides.
func NewClient(baseURL, auth string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		authHeader: auth,
		httpClient: httpClient,
		logger:     logger,
	}
}

// SetAuth replaces the authorization value, used after a token exchange.
func (c *Client) SetAuth(auth string) { c.authHeader = auth }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "error", err)
		return &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return &RemoteError{Status: resp.StatusCode, Message: string(msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			// Empty 2xx body for callers that expected one; treat as no data.
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
