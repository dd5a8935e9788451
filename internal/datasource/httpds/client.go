// Package httpds downloads the tracker sheet over HTTP. Published sheet
// exports and file shares throttle and fail intermittently, so Get retries
// 429, 5xx and transport failures with doubling waits; any other response is
// handed back for the caller to judge.
package httpds

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

// Config tunes a Client. Zero durations take the package defaults (30s
// timeout, 200ms first wait, 5s longest wait).
type Config struct {
	// Timeout bounds one download attempt, body included.
	Timeout time.Duration

	// MaxRetries counts attempts after the first; negative means none.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Later waits double
	// and are capped at MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// InsecureSkipVerify accepts any server certificate, for intranet shares
	// with self-signed certificates. It has no effect with a custom Transport.
	InsecureSkipVerify bool

	// BaseHeaders go on every request (auth tokens, Accept). Headers passed to
	// Get replace base values of the same name.
	BaseHeaders http.Header

	// Transport, when set, is used as-is.
	Transport http.RoundTripper
}

// Client fetches sheet exports with retry.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	baseHeaders    http.Header

	// wait sleeps between attempts; tests swap it for a recorder.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		maxRetries:     max(cfg.MaxRetries, 0),
		initialBackoff: orDefault(cfg.InitialBackoff, defaultInitialBackoff),
		maxBackoff:     orDefault(cfg.MaxBackoff, defaultMaxBackoff),
		baseHeaders:    cfg.BaseHeaders.Clone(),
		wait:           waitContext,
	}

	rt := cfg.Transport
	if rt == nil {
		rt = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in per source
			},
		}
	}
	c.httpClient = &http.Client{Timeout: orDefault(cfg.Timeout, defaultTimeout), Transport: rt}
	return c
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Get downloads url. On success the caller owns resp.Body. A response with a
// status that is not retried (404, 403, ...) is returned without error; after
// the last failed attempt the error of that attempt is returned.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	if url == "" {
		return nil, fmt.Errorf("httpds: empty url")
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := c.newRequest(ctx, url, headers)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("httpds: GET %s: status %d", url, resp.StatusCode)
		}

		if attempt >= c.maxRetries {
			return nil, lastErr
		}
		if err := c.wait(ctx, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}
}

// newRequest builds one attempt's request: base headers first, then the
// per-call headers replacing any of the same name.
func (c *Client) newRequest(ctx context.Context, url string, headers http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpds: request: %w", err)
	}
	for name, values := range c.baseHeaders {
		req.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	for name, values := range headers {
		req.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	return req, nil
}

// isRetryableStatus reports throttling and server-side failures.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// backoffDuration is initial doubled attempt times, never above limit. Shift
// overflow also yields limit.
func backoffDuration(initial time.Duration, attempt int, limit time.Duration) time.Duration {
	d := initial << max(attempt, 0)
	if d <= 0 || d > limit {
		return limit
	}
	return d
}

// waitContext sleeps for d unless ctx ends first.
func waitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
