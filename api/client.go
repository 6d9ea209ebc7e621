// Package api is the typed client for the marketplace backend. Requests are
// built per call with the credential supplied at send time; the client holds
// no mutable default headers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	apperrors "github.com/safaltravel/marketctl/internal/errors"
	"github.com/safaltravel/marketctl/session"
)

// ErrSessionExpired is returned when a request stayed unauthorized after the
// one permitted refresh-and-retry. The session has already been cleared.
var ErrSessionExpired = apperrors.ErrSessionExpired

const defaultTimeout = 30 * time.Second

// CredentialSource supplies the bearer credential for outgoing requests and
// the recovery hooks the interception layer needs. Implemented by
// *session.Manager.
type CredentialSource interface {
	AccessToken() string
	RefreshFor(ctx context.Context, staleToken string) error
	Logout(ctx context.Context) error
}

// Client calls the marketplace backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithLogger sets the logger for request interception events.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithBaseTransport sets the transport the bearer interceptor wraps
// (primarily for testing).
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		if bt, ok := c.http.Transport.(*bearerTransport); ok {
			bt.base = rt
			return
		}
		c.http.Transport = rt
	}
}

// NewClient returns a client for the backend at baseURL. Every request is
// decorated with creds' current access token and unauthorized responses go
// through one coalesced refresh-and-retry.
func NewClient(baseURL string, creds CredentialSource, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if creds == nil {
		return nil, errors.New("[NewClient] credential source is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	c.http = &http.Client{
		Timeout: defaultTimeout,
		Transport: &bearerTransport{
			creds: creds,
			base:  http.DefaultTransport,
		},
	}

	for _, opt := range options {
		opt(c)
	}
	c.http.Transport.(*bearerTransport).log = c.log

	return c, nil
}

// NewRefreshFunc returns the refresh exchange used by the session manager.
// It deliberately bypasses the interception layer: a refresh that fails with
// 401 must surface, not recurse.
func NewRefreshFunc(baseURL string, options ...ClientOption) session.RefreshFunc {
	plain := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(plain)
	}

	return func(ctx context.Context, refreshToken string) (*session.TokenPair, error) {
		var out refreshedTokens
		header := http.Header{"Authorization": {"Bearer " + refreshToken}}
		if err := plain.do(ctx, http.MethodPost, routeRefreshToken, nil, struct{}{}, &out, header); err != nil {
			return nil, errors.Wrap(err, "[RefreshFunc] refresh-token")
		}
		return &session.TokenPair{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, nil
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, nil)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, nil)
}

// do builds and sends one request and decodes the response envelope into
// out. A JSON body is always marshalled to a bytes reader so the transport
// can replay it on the post-refresh retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, header http.Header) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] marshal %s body", path)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] build %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Interception already spent its one refresh-and-retry.
		return ErrSessionExpired
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s response (status %d)", path, resp.StatusCode)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s data", path)
	}
	return nil
}
