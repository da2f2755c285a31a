// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is returned when a remote service answers with an unexpected status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// RequestOption mutates an outgoing request (auth, headers).
type RequestOption func(*http.Request)

func WithBasicAuth(user, password string) RequestOption {
	return func(r *http.Request) { r.SetBasicAuth(user, password) }
}

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Client is a JSON client that bounds every call with its own timeout.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		timeout:    timeout,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}

// CloseIdleConnections releases pooled connections held by this client.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// GetRaw performs a GET and returns status and body without judging the status.
func (c *Client) GetRaw(ctx context.Context, url string, opts ...RequestOption) (int, []byte, error) {
	return c.send(ctx, http.MethodGet, url, nil, opts)
}

// GetJSON performs a GET and decodes a 200 response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}, opts ...RequestOption) error {
	status, body, err := c.send(ctx, http.MethodGet, url, nil, opts)
	if err != nil {
		return err
	}
	return decode(status, body, out)
}

// PostJSON encodes in, POSTs it and decodes a 2xx response into out (out may be nil).
func (c *Client) PostJSON(ctx context.Context, url string, in, out interface{}, opts ...RequestOption) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	status, body, err := c.send(ctx, http.MethodPost, url, payload, opts)
	if err != nil {
		return err
	}
	return decode(status, body, out)
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte, opts []RequestOption) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decode(status int, body []byte, out interface{}) error {
	if status < 200 || status > 299 {
		return &StatusError{StatusCode: status, Body: string(body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
