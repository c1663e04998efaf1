package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marcofalcone/basket-deal-tracker/internal/metrics"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultUserAgent    = "basket-deal-tracker/1.0"

	// maxPageBytes bounds how much of a listing page is read; real listing
	// pages are well under this.
	maxPageBytes = 8 << 20
)

// Fetcher downloads listing pages for scheduled basket refreshes, honoring
// a shared rate limiter.
type Fetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	userAgent string
}

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header sent with each fetch.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher. The limiter may be nil, in which case
// fetches are unthrottled (useful in tests).
func NewFetcher(limiter *RateLimiter, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		limiter:   limiter,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage downloads a listing page and returns its markup.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.ScrapeDailyLimitHits.Inc()
			}
			return "", err
		}
		metrics.ScrapeDailyUsage.Set(float64(f.limiter.DailyCount()))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}
