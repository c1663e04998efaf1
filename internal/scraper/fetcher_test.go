package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>listing</html>"))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(nil, WithUserAgent("test-agent"))
	body, err := f.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>listing</html>", body)
}

func TestFetchPage_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(nil)
	_, err := f.FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestFetchPage_DailyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(NewRateLimiter(100, 10, 2))

	for range 2 {
		_, err := f.FetchPage(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	_, err := f.FetchPage(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limiter := NewRateLimiter(1000, 10, 1, WithNowFunc(func() time.Time { return now }))

	require.NoError(t, limiter.Wait(context.Background()))
	require.ErrorIs(t, limiter.Wait(context.Background()), ErrDailyLimitReached)
	assert.Equal(t, int64(0), limiter.Remaining())

	// Step past the 24-hour window; the budget comes back.
	now = now.Add(25 * time.Hour)
	require.NoError(t, limiter.Wait(context.Background()))
}
