package httpds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrStatus is wrapped by Source.Open when the server answers with a non-2xx
// status after retries.
var ErrStatus = errors.New("unexpected HTTP status")

// Source downloads one URL per Open.
type Source struct {
	client  *Client
	url     string
	headers http.Header
}

// NewSource returns a Source that fetches url with c.
func NewSource(c *Client, url string, headers http.Header) *Source {
	return &Source{client: c, url: url, headers: headers}
}

// URL returns the fetched address.
func (s *Source) URL() string { return s.url }

// Open fetches the URL and returns the response body.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, s.headers)
	if err != nil {
		return nil, fmt.Errorf("httpds: get %s: %w", s.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: get %s: %w %d", s.url, ErrStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
