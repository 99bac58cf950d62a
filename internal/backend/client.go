package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/noah-isme/mentor-scheduling-api/pkg/config"
	"github.com/noah-isme/mentor-scheduling-api/pkg/middleware/requestid"
)

// Observer receives one call per backend round trip.
type Observer func(op string, status int, duration time.Duration)

type tokenKey struct{}

// WithToken stores the caller's bearer token so outbound calls act on their behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored by WithToken.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the platform backend that owns courses, availability and sessions.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver installs a per-call observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a Client. A non-positive rate limit disables throttling.
func NewClient(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
		logger:  logger.Named("backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}
}

// do performs one request and decodes the JSON answer into out. Errors are
// returned raw (transport error or *StatusError); callers map them.
func (c *Client) do(ctx context.Context, cl call) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit: %w", cl.op, err)
	}

	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", cl.op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := requestid.FromContext(ctx)
	if reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(cl.op, 0, elapsed)
		c.logger.Warn("backend request failed",
			zap.String("op", cl.op),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	defer resp.Body.Close()
	c.observe(cl.op, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Op: cl.op, StatusCode: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
		c.logger.Info("backend rejected request",
			zap.String("op", cl.op),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", se.Message),
		)
		return se
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer(op, status, d)
	}
}

func decodeErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}
