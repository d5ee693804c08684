package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/httputil"
	"github.com/matzehuels/unshred/pkg/observability"
)

// DefaultLinksURL is the CSV export of the sheet listing the scans.
const DefaultLinksURL = "https://docs.google.com/spreadsheets/d/1Y4qoXTpd0ZO2CRZzgYV3Lvd1Aihui_Ya6p0V89nKdNU/gviz/tq?tqx=out:csv&sheet=Unique%20Codes"

// DefaultConcurrency bounds parallel downloads.
const DefaultConcurrency = 40

const (
	httpTimeout   = 60 * time.Second
	retryAttempts = 3
	retryDelay    = time.Second
)

// Client performs the HTTP side of acquisition.
type Client struct {
	http     *http.Client
	cache    *httputil.Cache
	attempts int
	delay    time.Duration
	progress func(done, pending int)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (60s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// WithProgress registers fn to be called after each file [Client.Download]
// writes, with the number written so far and the number it set out to fetch.
// fn may be called from several goroutines at once.
func WithProgress(fn func(done, pending int)) Option {
	return func(c *Client) { c.progress = fn }
}

// NewClient creates a Client. cache may be nil to disable link-list caching.
func NewClient(cache *httputil.Cache, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache,
		attempts: retryAttempts,
		delay:    retryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache != nil {
		c.cache = c.cache.Namespace("links:")
	}
	return c
}

// retry runs fn under the client's backoff policy.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, c.attempts, c.delay, fn)
}

// get issues a GET and returns the body of a 200 response. The caller
// closes it.
func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %q", rawURL)
	}
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "GET %s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "GET %s: status %d", rawURL, code))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code)
	}
}
