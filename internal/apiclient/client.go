// Package apiclient is the only way the portal talks to the college REST API.
package apiclient

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

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response is read for detail text.
const maxErrorBody = 64 << 10

// Client issues requests against the API base URL. It holds no session;
// authenticated calls go through a Conn obtained from As.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a Client. A zero timeout leaves requests bounded only by their context.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "apiclient").Logger(),
	}
}

// NewWithHTTPClient is New with a caller-supplied transport, used by tests.
func NewWithHTTPClient(baseURL string, hc *http.Client, log zerolog.Logger) *Client {
	c := New(baseURL, 0, log)
	c.http = hc
	return c
}

// Authenticator supplies the bearer token for a session and is told which
// token the API rejected.
type Authenticator interface {
	Token() string
	Invalidate(ctx context.Context, rejected string)
}

// As binds the client to a session.
func (c *Client) As(auth Authenticator) *Conn {
	return &Conn{client: c, auth: auth}
}

// request describes one call. Exactly one of form and body may be set.
type request struct {
	method string
	path   string
	token  string
	form   url.Values
	body   any
	// authed marks session calls: a 401/403 is an authorization failure
	// even when the session had no token left to send.
	authed bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		reader = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return &RequestError{Method: r.method, Path: r.path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("API request failed")
		return &RequestError{Method: r.method, Path: r.path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RequestError{Method: r.method, Path: r.path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := extractDetail(raw)

	if (r.authed || r.token != "") && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return &AuthorizationError{Method: r.method, Path: r.path, Status: resp.StatusCode, Detail: detail}
	}
	return &RequestError{Method: r.method, Path: r.path, Status: resp.StatusCode, Detail: detail}
}

// Login exchanges credentials for a bearer token at /auth/token.
// The endpoint takes an OAuth2 password form: username carries the email.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var tok tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/token",
		form: url.Values{
			"username": {creds.Email},
			"password": {creds.Password},
		},
	}, &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", &RequestError{Method: http.MethodPost, Path: "/auth/token", Status: http.StatusOK, Err: errors.New("empty access token")}
	}
	return tok.AccessToken, nil
}

// Me resolves the identity behind token. A rejected token yields
// *AuthorizationError without invalidating anything; the caller owns the token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", token: token}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Register creates a student account. Public endpoint.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: reg}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Health pings the API root.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}

// Conn is a Client bound to one session. Every call carries the session's
// bearer token, and a 401/403 invalidates the session before the
// *AuthorizationError is returned.
type Conn struct {
	client *Client
	auth   Authenticator
}

func (c *Conn) do(ctx context.Context, method, path string, body, out any) error {
	token := c.auth.Token()
	err := c.client.do(ctx, request{method: method, path: path, token: token, body: body, authed: true}, out)
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		c.client.log.Info().Str("path", path).Int("status", authErr.Status).Msg("API rejected session token")
		c.auth.Invalidate(ctx, token)
	}
	return err
}

// Me re-fetches the acting user's identity.
func (c *Conn) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
