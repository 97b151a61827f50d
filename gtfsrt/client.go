package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client fetches feeds over HTTP, retrying network errors and 5xx responses
// with exponential backoff.
type Client struct {
	httpClient      *http.Client
	maxRetries      uint64
	initialInterval time.Duration
}

// NewClient creates a new HTTP client. A zero timeout means none.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		maxRetries:      3,
		initialInterval: 250 * time.Millisecond,
	}
}

// WithRetries sets how many times a failed request is retried.
func (c *Client) WithRetries(n uint64, initial time.Duration) *Client {
	c.maxRetries = n
	c.initialInterval = initial
	return c
}

// Fetch fetches a single feed from a URL and returns the raw body.
// Returns nil if url is empty (allows optional feeds).
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request for %s: %w", url, err))
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("HTTP %d from %s", resp.StatusCode, url))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
