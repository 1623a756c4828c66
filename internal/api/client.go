// Package api is the typed client for the three Digo services: auth,
// messages, and admin. Each method issues exactly one HTTP request and
// decodes its JSON response; there are no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/config"
)

// headerUserID carries the caller's identity on admin calls. The
// server is the sole enforcer of admin authorization.
const headerUserID = "X-User-Id"

type Client struct {
	authURL     string
	messagesURL string
	adminURL    string
	httpClient  *http.Client
}

// New builds a client for the configured service endpoints. The
// underlying HTTP client applies no timeout of its own; callers bound
// requests through the context.
func New(cfg *config.Config) *Client {
	return &Client{
		authURL:     cfg.Auth.URL,
		messagesURL: cfg.Messages.URL,
		adminURL:    cfg.Admin.URL,
		httpClient:  &http.Client{},
	}
}

// get issues a GET with the given query parameters and returns the
// status code and raw body.
func (c *Client) get(ctx context.Context, baseURL string, query url.Values, header http.Header) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return c.do(req)
}

// post issues a POST with a JSON body and returns the status code and
// raw response body.
func (c *Client) post(ctx context.Context, baseURL string, body any, header http.Header) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func adminHeader(adminUserID string) http.Header {
	header := http.Header{}
	header.Set(headerUserID, adminUserID)
	return header
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
