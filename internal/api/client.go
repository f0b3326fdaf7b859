// Package api is the HTTP client for the marketplace backend. All
// authenticated traffic flows through it; the asset-upload service uses a
// separate stack and never sees the bearer token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ceylonhub/storefront/internal/config"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
)

// TokenSource supplies the current bearer token; an empty string means
// anonymous. The session manager implements it.
type TokenSource interface {
	Token() string
}

type Client struct {
	base       *url.URL
	httpClient *http.Client

	mu             sync.Mutex
	onUnauthorized func()
}

func New(cfg config.API, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL %q: %w", cfg.BaseURL, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("API base URL %q must be absolute", cfg.BaseURL)
	}

	c := &Client{base: base}
	c.httpClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &authTransport{
			next:    http.DefaultTransport,
			tokens:  tokens,
			apiHost: base.Host,
			onUnauthorized: func() {
				c.notifyUnauthorized()
			},
		},
	}

	return c, nil
}

// SetUnauthorizedHandler registers the hook run whenever the backend answers
// 401. The session manager uses it to clear a presumed-expired token.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onUnauthorized = fn
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("Failed to encode request").WithError(err)
		}

		reader = bytes.NewReader(payload)
	}

	// plain concatenation: path may already carry a query string
	endpoint := strings.TrimRight(c.base.String(), "/") + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.InternalError("Failed to build request").WithError(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NetworkError("Could not reach the server").WithError(err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NetworkError("Failed to read response").WithError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apperrors.FromStatus(resp.StatusCode, errorMessage(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.InternalError("Failed to decode response").WithError(err)
	}

	return nil
}

// errorMessage pulls the human-readable message out of a failure body. The
// backend sends {"message": "..."}; some endpoints wrap it as
// {"error": {"code": "...", "message": "..."}}.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	if payload.Message != "" {
		return payload.Message
	}

	if payload.Error != nil {
		return payload.Error.Message
	}

	return ""
}
