// internal/api/client.go
//
// Base REST client for the platform backend.
//
// Context
// -------
// Every outbound call (store config, catalog, cart, customers) funnels
// through Client.do, which owns URL construction, JSON codec, correlation
// headers, timeouts, and status-code mapping.  Two headers correlate
// requests:
//
//   • X-Guest-Session  – client-generated guest session id, attached to
//     every request when a provider is configured.
//   • Authorization    – bearer token, attached when a token provider
//     returns a non-empty value.
//
// A 401 from *any* endpoint fires the unauthorized hook exactly once per
// response before the error is returned, so the session layer can purge
// credentials no matter which call tripped it.
//
// Notes
// -----
// • Non-2xx responses become *Error with a human-readable message.
// • Timeouts are explicit; the zero default is DefaultTimeout.
// • Oxford commas, two spaces after periods.

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
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout caps one backend round trip.
const DefaultTimeout = 10 * time.Second

// SessionHeader carries the guest session identifier.
const SessionHeader = "X-Guest-Session"

// Sentinel errors callers can branch on with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is any non-2xx backend response that is not a sentinel case.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client is safe for concurrent use.  Construct with New.
type Client struct {
	baseURL string
	httpc   *http.Client

	sessionID func() string // guest session id, optional

	mu             sync.RWMutex
	token          func() string // bearer token, optional
	onUnauthorized func()
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithHTTPClient substitutes the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithSessionID installs the guest session id provider.
func WithSessionID(fn func() string) Option {
	return func(c *Client) { c.sessionID = fn }
}

// WithToken installs the bearer token provider.  An empty return value
// omits the Authorization header.
func WithToken(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// New constructs a Client rooted at baseURL (no trailing slash needed).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetUnauthorizedHook registers fn to run on every 401 response.  May be
// called after construction because the session store that needs the
// hook is built on top of this client.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// SetTokenProvider replaces the bearer token provider after
// construction, for the same layering reason as SetUnauthorizedHook.
func (c *Client) SetTokenProvider(fn func() string) {
	c.mu.Lock()
	c.token = fn
	c.mu.Unlock()
}

//
// core round trip
//

// do performs one JSON round trip.  body and out may each be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionID != nil {
		if sid := c.sessionID(); sid != "" {
			req.Header.Set(SessionHeader, sid)
		}
	}
	c.mu.RLock()
	tokenFn := c.token
	c.mu.RUnlock()
	if tokenFn != nil {
		if tok := tokenFn(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.fireUnauthorized()
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 400:
		return &Error{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// readMessage extracts a human-readable message from an error body.  The
// backend answers either {"error": "..."} or {"detail": "..."}; anything
// else falls back to the raw text, truncated.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}

	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	zap.L().Debug("unstructured backend error body", zap.String("body", msg))
	return msg
}
