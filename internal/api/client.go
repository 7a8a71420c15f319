package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// ProBaseURL serves paid accounts; FreeBaseURL serves keys carrying the
	// free-tier ":fx" suffix.
	ProBaseURL  = "https://api.deepl.com"
	FreeBaseURL = "https://api-free.deepl.com"

	// StatusQuotaExceeded is DeepL's non-standard code for an exhausted
	// character quota.
	StatusQuotaExceeded = 456
)

// ErrQuotaExceeded is returned when the account's translation quota is used
// up for the current billing period.
var ErrQuotaExceeded = errors.New("api: translation quota exceeded")

// APIError is any other non-2xx response, with the server's message when one
// was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the DeepL REST API (text translation, glossaries, usage,
// language listing). Safe for concurrent use.
type Client struct {
	authKey    string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint selected from the key suffix.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client. Keys ending in ":fx" are free-tier keys and route to
// the free endpoint automatically.
func New(authKey string, opts ...Option) (*Client, error) {
	if authKey == "" {
		return nil, fmt.Errorf("api: auth key must not be empty")
	}
	c := &Client{
		authKey:    authKey,
		baseURL:    BaseURLForKey(authKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURLForKey picks the REST endpoint matching the key's account tier.
func BaseURLForKey(authKey string) string {
	if strings.HasSuffix(authKey, ":fx") {
		return FreeBaseURL
	}
	return ProBaseURL
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("api: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("api: request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == StatusQuotaExceeded {
			return ErrQuotaExceeded
		}
		return &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func readMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
