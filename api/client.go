// Package api provides the JSON client for the food-delivery platform API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"food-delivery-client/models"
)

// Authenticator supplies the bearer token for outgoing requests and performs
// the one permitted reauthorization after a 401. Reauthorize must either
// return a fresh access token or tear the session down and fail. Invalidate
// is called when even the replayed request comes back unauthorized.
type Authenticator interface {
	AccessToken() string
	Reauthorize(ctx context.Context) (string, error)
	Invalidate(ctx context.Context)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authenticator
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAuthenticator attaches the session manager. Requests made without one
// carry no Authorization header and are never retried.
func (c *Client) SetAuthenticator(auth Authenticator) {
	c.auth = auth
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out, true, 0)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true, 0)
}

func (c *Client) PostWithHeaders(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, headers, body, out, true, 0)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true, 0)
}

// PostPublic posts without a bearer token and without the 401 retry. Login,
// refresh and logout go through here so an expired access token can never
// recurse into another refresh.
func (c *Client) PostPublic(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false, 0)
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out interface{}, authed bool, attempt int) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if authed && c.auth != nil {
		if token := c.auth.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// One refresh, one replay. A 401 on the replayed request invalidates
	// the session and propagates; it is never retried again.
	if resp.StatusCode == http.StatusUnauthorized && authed && c.auth != nil {
		original := decodeError(resp)
		if attempt > 0 {
			c.auth.Invalidate(ctx)
			return original
		}
		if _, rerr := c.auth.Reauthorize(ctx); rerr != nil {
			return original
		}
		return c.do(ctx, method, path, headers, body, out, authed, 1)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	return decodeData(resp, out)
}

func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var envelope models.Response
	if json.Unmarshal(raw, &envelope) == nil {
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		if message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: message}
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}

func decodeData(resp *http.Response, out interface{}) error {
	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<20))
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope models.Response
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
		return nil
	}

	// Some endpoints reply with a bare object instead of the envelope.
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
