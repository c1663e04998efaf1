// Package engine orchestrates the deal pipeline: load the basket from the
// store, run the pure deal computations, persist the results, and optionally
// refresh the basket's offers from the price comparison site.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcofalcone/basket-deal-tracker/internal/dealengine"
	"github.com/marcofalcone/basket-deal-tracker/internal/metrics"
	"github.com/marcofalcone/basket-deal-tracker/internal/scraper"
	"github.com/marcofalcone/basket-deal-tracker/internal/store"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

const refreshJobName = "refresh_basket"

// PageFetcher downloads a listing page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// OfferExtractor turns listing page markup into seller offers.
type OfferExtractor interface {
	ExtractOffers(markup string) ([]domain.Deal, error)
}

// Engine orchestrates deal computation and basket refresh.
type Engine struct {
	store     store.Store
	extractor OfferExtractor
	fetcher   PageFetcher
	log       *slog.Logger
}

// NewEngine creates a new Engine with injected dependencies. The fetcher may
// be nil, in which case RefreshBasket is unavailable.
func NewEngine(s store.Store, ex OfferExtractor, opts ...EngineOption) *Engine {
	eng := &Engine{
		store:     s,
		extractor: ex,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithFetcher enables basket refresh via the given page fetcher.
func WithFetcher(f PageFetcher) EngineOption {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// ComputeDeals runs the full deal pipeline over the stored basket and
// persists the resulting snapshot: availability filtering, per-item best
// individual deals, the single-seller cumulative bundle (only when the basket
// holds more than one item), and the overall cheapest strategy.
func (eng *Engine) ComputeDeals(ctx context.Context) (*domain.DealResults, error) {
	start := time.Now()
	defer func() {
		metrics.DealComputeDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := eng.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing basket items: %w", err)
	}

	basket := domain.Basket(items)
	individual := make(domain.BestIndividualDeals, len(basket))

	for i := range basket {
		item := &basket[i]
		removed, kept := dealengine.FilterUnavailable(item.Deals)
		if removed > 0 {
			metrics.UnavailableDealsRemoved.Add(float64(removed))
			eng.log.Debug("removed unavailable deals",
				"item", item.Title,
				"removed", removed,
			)
		}
		item.Deals = kept
		individual[item.Title] = dealengine.FindBestIndividualDeals(item.Title, kept, item.Quantity)
	}

	// A single-item basket has no bundle to build.
	cumulative := []domain.SellerOffer{}
	if len(basket) > 1 {
		cumulative = dealengine.FindBestCumulativeDeals(basket)
	}

	overall := dealengine.FindBestOverallDeal(individual, cumulative)

	results := &domain.DealResults{
		Individual: individual,
		Cumulative: cumulative,
		Overall:    overall,
		ComputedAt: time.Now().UTC(),
	}

	if err := eng.store.SaveResults(ctx, results); err != nil {
		return nil, fmt.Errorf("saving deal results: %w", err)
	}

	metrics.DealComputationsTotal.Inc()
	eng.log.Info("deal computation complete",
		"items", len(basket),
		"common_sellers", len(cumulative),
		"best_deal_type", overall.BestDealType,
		"best_total_price", overall.BestTotalPrice,
	)

	return results, nil
}

// RefreshBasket re-fetches every item's listing page, replaces its stored
// offers, and recomputes the deal snapshot. Each run is recorded in job_runs.
func (eng *Engine) RefreshBasket(ctx context.Context) error {
	if eng.fetcher == nil {
		return errors.New("refresh requires a page fetcher")
	}

	start := time.Now()
	metrics.RefreshRunsTotal.Inc()
	defer func() {
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	jobID, err := eng.store.InsertJobRun(ctx, refreshJobName)
	if err != nil {
		// Bookkeeping only; the refresh itself can still run.
		eng.log.Error("recording job run failed", "error", err)
	}

	refreshed, runErr := eng.refreshItems(ctx)

	if runErr == nil {
		_, runErr = eng.ComputeDeals(ctx)
	}

	status, errText := "success", ""
	if runErr != nil {
		status, errText = "error", runErr.Error()
		metrics.RefreshErrorsTotal.Inc()
	}
	if jobID != "" {
		if err := eng.store.CompleteJobRun(ctx, jobID, status, errText, refreshed); err != nil {
			eng.log.Error("completing job run failed", "error", err)
		}
	}

	return runErr
}

func (eng *Engine) refreshItems(ctx context.Context) (int, error) {
	items, err := eng.store.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing basket items: %w", err)
	}

	var refreshed int
	for i := range items {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}

		item := &items[i]
		markup, fetchErr := eng.fetcher.FetchPage(ctx, item.URL)
		if fetchErr != nil {
			if errors.Is(fetchErr, scraper.ErrDailyLimitReached) {
				eng.log.Warn("daily fetch limit reached, stopping refresh",
					"item", item.Title,
					"refreshed", refreshed,
				)
				break
			}
			metrics.ScrapeFailuresTotal.Inc()
			eng.log.Error("fetching listing failed", "item", item.Title, "error", fetchErr)
			continue
		}

		deals, extractErr := eng.extractor.ExtractOffers(markup)
		if extractErr != nil {
			metrics.ScrapeFailuresTotal.Inc()
			eng.log.Error("extracting offers failed", "item", item.Title, "error", extractErr)
			continue
		}
		metrics.ScrapeOffersTotal.Add(float64(len(deals)))

		item.Deals = deals
		if err := eng.store.UpsertItem(ctx, item); err != nil {
			eng.log.Error("upserting refreshed item failed", "item", item.Title, "error", err)
			continue
		}
		refreshed++
	}

	return refreshed, nil
}
