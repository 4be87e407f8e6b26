// Package httpclient provides the stitcher's single shared HTTP
// client plus a bounded-retry fetch helper used by every component
// that reaches out to an origin, ad, or VAST endpoint.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/streamops/stitcher/internal/logger"
)

// DefaultTimeout bounds every request made through the shared client,
// per the spec's suspension-point rule; a shorter context deadline on
// the request takes effect first.
const DefaultTimeout = 30 * time.Second

// Client wraps the shared *http.Client with the retry policy used by
// origin, segment and ad fetches: up to 2 attempts with a fixed
// backoff between them, on network error or non-2xx response.
type Client struct {
	http   *http.Client
	logger logger.Logger
}

// New builds a Client around a process-wide *http.Client. The
// underlying transport's connection pool is the system's primary
// back-pressure mechanism; callers share one Client instance.
func New(log logger.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: log,
	}
}

// Result holds a successfully fetched body plus the response's
// Content-Type, for callers that proxy bytes through unmodified.
type Result struct {
	Body        []byte
	ContentType string
}

// FetchOnce issues a single GET with no retry. Playlist fetches use
// this: the spec reserves the retry budget for segment fetches, since
// a playlist's segment list means the retry cost would be paid once
// per segment otherwise.
func (c *Client) FetchOnce(ctx context.Context, url string) (*Result, error) {
	return c.do(ctx, url, 1, 0)
}

// FetchWithRetry issues up to maxAttempts GETs, sleeping delay between
// failures. Used for segment, ad-segment and VAST fetches.
func (c *Client) FetchWithRetry(ctx context.Context, url string, maxAttempts int, delay time.Duration) (*Result, error) {
	return c.do(ctx, url, maxAttempts, delay)
}

func (c *Client) do(ctx context.Context, url string, maxAttempts int, delay time.Duration) (*Result, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpclient: build request for %s: %w", url, err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warnf("httpclient: attempt %d/%d for %s failed: %v", attempt, maxAttempts, url, err)
			if attempt < maxAttempts {
				sleep(ctx, delay)
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			lastErr = fmt.Errorf("non-2xx status %d from %s", resp.StatusCode, url)
			c.logger.Warnf("httpclient: attempt %d/%d for %s: %v", attempt, maxAttempts, url, lastErr)
			if attempt < maxAttempts {
				sleep(ctx, delay)
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading body from %s: %w", url, err)
			if attempt < maxAttempts {
				sleep(ctx, delay)
			}
			continue
		}

		return &Result{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
	}

	return nil, fmt.Errorf("httpclient: %s failed after %d attempts: %w", url, maxAttempts, lastErr)
}

// FireAndForget issues a GET in the background with a short timeout,
// discarding the response. Used for tracking beacons: best effort, no
// retry, no body read beyond draining it for connection reuse.
func (c *Client) FireAndForget(url string, timeout time.Duration) {
	c.FireAndForgetWithCallback(url, timeout, nil)
}

// FireAndForgetWithCallback is FireAndForget plus an optional onErr
// hook invoked (off the caller's goroutine) when the beacon fails, so
// callers can record a metric without blocking on the request.
func (c *Client) FireAndForgetWithCallback(url string, timeout time.Duration, onErr func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			c.logger.Warnf("httpclient: beacon request build failed for %s: %v", url, err)
			if onErr != nil {
				onErr(err)
			}
			return
		}
		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Warnf("httpclient: beacon fire failed for %s: %v", url, err)
			if onErr != nil {
				onErr(err)
			}
			return
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
