// Package metrics defines Prometheus metrics for basket-deal-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bdt"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Deal computation metrics.
var (
	DealComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "deal_compute_duration_seconds",
		Help:      "Duration of full basket deal computations in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	DealComputationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deal_computations_total",
		Help:      "Total number of basket deal computations.",
	})

	UnavailableDealsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unavailable_deals_removed_total",
		Help:      "Total number of deals dropped by the availability filter.",
	})
)

// Scraper metrics.
var (
	ScrapeOffersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_offers_total",
		Help:      "Total number of seller offers extracted from listing pages.",
	})

	ScrapeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_failures_total",
		Help:      "Total number of listing page fetch or parse failures.",
	})

	ScrapeDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scrape_daily_usage",
		Help:      "Current fetch count within the rolling 24-hour window.",
	})

	ScrapeDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_daily_limit_hits_total",
		Help:      "Total number of times the daily fetch limit was reached.",
	})
)

// Refresh job metrics.
var (
	RefreshRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_runs_total",
		Help:      "Total number of scheduled basket refresh runs.",
	})

	RefreshErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_errors_total",
		Help:      "Total number of failed basket refresh runs.",
	})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of basket refresh runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the service is live (1) or not (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the service is ready to serve traffic (1) or not (0).",
	})
)
