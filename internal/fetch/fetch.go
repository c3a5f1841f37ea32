// Package fetch provides the page-fetching collaborator used by the
// scraping pipeline, plus the polite-delay policy applied between requests.
//
// The pipeline only ever consumes settled page content through the Fetcher
// interface; how that content is produced (plain HTTP here, a headless
// browser elsewhere) is the implementation's business. Tests substitute an
// in-memory Fetcher and a no-delay Pacer.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies this tool to the pairing site.
	UserAgent = "mc-elo/1.0 (github.com/boada/mc-elo)"

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 30 * time.Second

	defaultMaxRetries = 3
)

// Fetcher returns fully-rendered page content for a URL once the page has
// settled.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client fetches pages over plain HTTP, retrying transient failures with
// exponential backoff.
type Client struct {
	client     *http.Client
	maxRetries uint64
}

// NewClient creates a Client with the default timeout and retry budget.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client:     &http.Client{Timeout: timeout},
		maxRetries: defaultMaxRetries,
	}
}

// Fetch retrieves the page body. Server-side errors and network failures
// are retried; client-side errors (4xx) are not, since retrying a bad URL
// only hammers the site.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var body string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		body = string(data)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}

	return body, nil
}
