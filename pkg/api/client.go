// Package api holds the gateways to the boost remote API.
//
// Gateways are stateless: every credentialed call takes the bearer token as
// an argument and every call resolves to a value or a *failure.Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/logging"
)

const (
	maxBody         = 1 << 20
	defaultTimeout  = 15 * time.Second
	defaultStatsTTL = time.Minute
)

// Client talks JSON over HTTP to the remote API and implements both
// AuthGateway and EntryGateway.
type Client struct {
	base  string
	http  *http.Client
	log   *zap.Logger
	stats *cache.Cache
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(l)
	}
}

// WithStatsTTL sets how long /auth/stats responses are reused per credential.
func WithStatsTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.stats = cache.New(ttl, 2*ttl)
	}
}

// New returns a Client for the API rooted at base, e.g.
// "https://api.example.com/api".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(strings.TrimSpace(base), "/"),
		http:  &http.Client{Timeout: defaultTimeout},
		log:   zap.NewNop(),
		stats: cache.New(defaultStatsTTL, 2*defaultStatsTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageBody struct {
	Message string `json:"message"`
}

// call issues one request. fallback is the message used when the server
// gives none. A nil out discards the response body.
func (c *Client) call(ctx context.Context, method, path, token string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return failure.Unknown(fallback, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return failure.Unknown(fallback, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failure.Network("request cancelled", 0, ctxErr)
		}
		return failure.Network("unable to reach the server", 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return failure.Network("unable to read the server response", resp.StatusCode, err)
	}

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, raw, fallback)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return failure.Unknown("unexpected response from the server", err)
	}
	return nil
}

func responseError(code int, raw []byte, fallback string) *failure.Error {
	msg := fallback
	var mb messageBody
	if err := json.Unmarshal(raw, &mb); err == nil && strings.TrimSpace(mb.Message) != "" {
		msg = mb.Message
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return failure.Auth(msg, code)
	default:
		return failure.Network(msg, code, fmt.Errorf("http status %d", code))
	}
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return failure.ErrNoCredential
	}
	return nil
}

func statusOf(err error) int {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}

// serverSaid reports whether err came back from the server (rather than the
// transport) and its message mentions word.
func serverSaid(err error, word string) bool {
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Status == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(fe.Message), word)
}
