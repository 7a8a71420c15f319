package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the REST endpoint sessions are provisioned against.
	DefaultBaseURL = "https://api.deepl.com"

	// trustedStreamingDomain bounds which hosts a streaming URL may point
	// at. Anything else is rejected before a single byte leaves the client.
	trustedStreamingDomain = "deepl.com"

	realtimePath = "/v3/voice/realtime"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the REST endpoint (e.g. the free-tier host).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient substitutes the http.Client used for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client issues the REST calls that create or resume a streaming session and
// opens the WebSocket connection itself. It is safe for concurrent use.
type Client struct {
	authKey    string
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer

	trustedDomain string
	// allowPlaintext permits ws:// URLs off the trusted domain; set only by
	// tests that stand up loopback servers.
	allowPlaintext bool
}

// New creates a Client. authKey must be non-empty.
func New(authKey string, opts ...Option) (*Client, error) {
	if authKey == "" {
		return nil, fmt.Errorf("voice: auth key must not be empty")
	}
	c := &Client{
		authKey:       authKey,
		baseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		dialer:        websocket.DefaultDialer,
		trustedDomain: trustedStreamingDomain,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// CreateSession provisions a new streaming session. Accounts without the
// streaming entitlement get ErrStreamingNotPermitted; malformed requests get
// a *ValidationError carrying the server's message.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (SessionDescriptor, error) {
	if len(req.TargetLangs) == 0 {
		return SessionDescriptor{}, &ValidationError{Message: "at least one target language is required"}
	}
	if req.MediaType == "" {
		return SessionDescriptor{}, &ValidationError{Message: "source media content type is required"}
	}
	if req.SourceLang == AutoDetect {
		req.SourceLang = ""
	}

	body, err := json.Marshal(req)
	if err != nil {
		return SessionDescriptor{}, fmt.Errorf("voice: encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+realtimePath, bytes.NewReader(body))
	if err != nil {
		return SessionDescriptor{}, fmt.Errorf("voice: build session request: %w", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
	httpReq.Header.Set("Content-Type", "application/json")

	desc, err := c.doSessionRequest(httpReq)
	if err != nil {
		return SessionDescriptor{}, err
	}
	log.Debug().Str("session_id", desc.SessionID).Msg("voice: session created")
	return desc, nil
}

// ReconnectSession exchanges a (possibly stale) token for a fresh descriptor
// without creating a new logical session. The session identifier carries
// over when the server omits it.
func (c *Client) ReconnectSession(ctx context.Context, token string) (SessionDescriptor, error) {
	if token == "" {
		return SessionDescriptor{}, &ValidationError{Message: "reconnect token must not be empty"}
	}

	u := c.baseURL + realtimePath + "?token=" + url.QueryEscape(token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SessionDescriptor{}, fmt.Errorf("voice: build reconnect request: %w", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)

	desc, err := c.doSessionRequest(httpReq)
	if err != nil {
		return SessionDescriptor{}, err
	}
	log.Debug().Str("session_id", desc.SessionID).Msg("voice: session token renewed")
	return desc, nil
}

func (c *Client) doSessionRequest(req *http.Request) (SessionDescriptor, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SessionDescriptor{}, fmt.Errorf("voice: session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		switch resp.StatusCode {
		case http.StatusForbidden:
			return SessionDescriptor{}, ErrStreamingNotPermitted
		case http.StatusBadRequest:
			if msg == "" {
				msg = "bad request"
			}
			return SessionDescriptor{}, &ValidationError{Message: msg}
		default:
			return SessionDescriptor{}, &RequestError{StatusCode: resp.StatusCode, Message: msg}
		}
	}

	var desc SessionDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return SessionDescriptor{}, fmt.Errorf("voice: decode session response: %w", err)
	}
	if desc.StreamingURL == "" || desc.Token == "" {
		return SessionDescriptor{}, fmt.Errorf("voice: session response is missing streaming URL or token")
	}
	return desc, nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

// Dial opens the streaming WebSocket for a descriptor. The URL must use the
// secure WebSocket scheme and point at the trusted service domain (or a
// subdomain); anything else fails with *URLError without a connection
// attempt. The session token travels as a query parameter.
func (c *Client) Dial(ctx context.Context, desc SessionDescriptor) (*Conn, error) {
	u, err := url.Parse(desc.StreamingURL)
	if err != nil {
		return nil, &URLError{URL: desc.StreamingURL, Reason: "not a valid URL"}
	}
	if err := c.validateStreamingURL(u); err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("token", desc.Token)
	u.RawQuery = q.Encode()

	ws, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("voice: websocket dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("voice: websocket dial: %w", err)
	}
	log.Debug().Str("host", u.Host).Msg("voice: streaming connection open")
	return newConn(ws), nil
}

func (c *Client) validateStreamingURL(u *url.URL) error {
	if c.allowPlaintext {
		return nil
	}
	if u.Scheme != "wss" {
		return &URLError{URL: u.String(), Reason: "scheme must be wss"}
	}
	host := u.Hostname()
	if host != c.trustedDomain && !strings.HasSuffix(host, "."+c.trustedDomain) {
		return &URLError{URL: u.String(), Reason: "host is outside the " + c.trustedDomain + " domain"}
	}
	return nil
}
