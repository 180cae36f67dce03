// Package transport provides the single shared API client the rest of the
// module talks through: base URL and timeout handling, JSON codec, bearer
// token injection, and the global 401 clear-and-redirect interceptor.
package transport

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markap/adminkit/core"
)

const (
	defaultTimeout = 30 * time.Second

	// Where a dead session sends the user, and the section that must not
	// trigger a redirect loop when the 401 happens inside it.
	defaultLoginPath  = "/auth/login"
	defaultAuthPrefix = "/auth"
)

// TokenSource yields the bearer token injected into outbound requests.
type TokenSource interface {
	AccessToken() string
}

// SessionClearer drops the local session. Implemented by core.SessionStore.
type SessionClearer interface {
	ClearAuth()
}

// Config carries the client configuration. Zero values fall back to the
// defaults the hosted client shipped with.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	LoginPath  string
	AuthPrefix string
}

// Client is the configured HTTP client every service call goes through.
type Client struct {
	http       *http.Client
	baseURL    string
	loginPath  string
	authPrefix string

	tokens   TokenSource
	sessions SessionClearer
	nav      core.Navigator
	log      *zap.Logger
}

// New builds the shared client. tokens and sessions are normally the same
// SessionStore; nav may be nil when no navigation layer is attached (library
// use), in which case a terminal 401 only clears the session.
func New(cfg Config, tokens TokenSource, sessions SessionClearer, nav core.Navigator, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, core.ErrBaseURLRequired
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.AuthPrefix == "" {
		cfg.AuthPrefix = defaultAuthPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		loginPath:  cfg.LoginPath,
		authPrefix: cfg.AuthPrefix,
		tokens:     tokens,
		sessions:   sessions,
		nav:        nav,
		log:        log,
	}, nil
}

type requestOptions struct {
	query            url.Values
	skipUnauthorized bool
}

// RequestOption tweaks a single call.
type RequestOption func(*requestOptions)

// WithQuery appends query parameters to the request URL.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = query
	}
}

// SkipUnauthorizedHandler exempts a call from the global 401 interceptor.
// Credential endpoints use it: a wrong password must surface as a plain error
// instead of tearing down whatever session already exists.
func SkipUnauthorizedHandler() RequestOption {
	return func(o *requestOptions) {
		o.skipUnauthorized = true
	}
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	target := c.baseURL + path
	if len(options.query) > 0 {
		target += "?" + options.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.send(req, path, options, out)
}

// send executes a prepared request and applies the shared response handling:
// error-envelope decoding, the 401 interceptor, and decoding into out. Both
// the JSON and the multipart paths end here, so the interceptor contract
// lives in one place.
func (c *Client) send(req *http.Request, path string, options requestOptions, out any) error {
	method := req.Method

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && !options.skipUnauthorized {
			c.handleUnauthorized(method, path)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}

	return nil
}

// handleUnauthorized runs once per 401 response: the session is cleared and,
// unless the user is already inside the auth section, the whole app is sent
// to the login route. The request itself is never retried; without a refresh
// flow a 401 is terminal for that call.
func (c *Client) handleUnauthorized(method, path string) {
	c.log.Info("session rejected by backend, clearing local state",
		zap.String("method", method),
		zap.String("path", path),
	)

	if c.sessions != nil {
		c.sessions.ClearAuth()
	}

	if c.nav == nil {
		return
	}
	if strings.HasPrefix(c.nav.CurrentPath(), c.authPrefix) {
		return
	}
	c.nav.Navigate(c.loginPath)
}

func decodeAPIError(status int, body []byte) *core.APIError {
	apiErr := &core.APIError{StatusCode: status}
	if len(body) > 0 {
		// Best effort: the backend's error envelope is {message, error,
		// statusCode}, but proxies can answer with anything.
		_ = json.Unmarshal(body, apiErr)
		apiErr.StatusCode = status
	}
	return apiErr
}
