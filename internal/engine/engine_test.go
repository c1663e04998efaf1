package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marcofalcone/basket-deal-tracker/internal/scraper"
	storeMocks "github.com/marcofalcone/basket-deal-tracker/internal/store/mocks"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

func fp(v float64) *float64 { return &v }

// stubExtractor maps markup to canned offers.
type stubExtractor struct {
	offers map[string][]domain.Deal
	err    error
}

func (s *stubExtractor) ExtractOffers(markup string) ([]domain.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.offers[markup], nil
}

// stubFetcher maps URLs to canned markup.
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (s *stubFetcher) FetchPage(_ context.Context, url string) (string, error) {
	if err := s.errs[url]; err != nil {
		return "", err
	}
	markup, ok := s.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return markup, nil
}

func testBasket() []domain.Item {
	return []domain.Item{
		{
			Title:    "mouse",
			URL:      "https://example.com/mouse",
			Quantity: 2,
			Deals: []domain.Deal{
				{Seller: "SellerA", Price: 20, DeliveryPrice: 5, FreeDelivery: fp(30), Availability: true},
				{Seller: "SellerB", Price: 18, DeliveryPrice: 5, FreeDelivery: fp(100), Availability: true},
				{Seller: "SellerC", Price: 15, Availability: false},
			},
		},
		{
			Title:    "keyboard",
			URL:      "https://example.com/keyboard",
			Quantity: 1,
			Deals: []domain.Deal{
				{Seller: "SellerA", Price: 50, DeliveryPrice: 5, FreeDelivery: fp(30), Availability: true},
				{Seller: "SellerB", Price: 45, DeliveryPrice: 7, FreeDelivery: fp(100), Availability: true},
			},
		},
	}
}

func TestEngine_ComputeDeals(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().ListItems(mock.Anything).Return(testBasket(), nil).Once()

	var saved *domain.DealResults
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Run(func(_ context.Context, results *domain.DealResults) {
			saved = results
		}).
		Return(nil).
		Once()

	eng := NewEngine(mockStore, &stubExtractor{})
	results, err := eng.ComputeDeals(context.Background())
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Same(t, saved, results)

	// Per-item best deals: only offers meeting their free-shipping
	// threshold qualify; the unavailable SellerC is filtered out first.
	require.Len(t, results.Individual["mouse"], 1)
	assert.Equal(t, "SellerA", results.Individual["mouse"][0].Seller)
	assert.InDelta(t, 40, results.Individual["mouse"][0].TotalPricePlusDelivery, 0.001)
	require.Len(t, results.Individual["keyboard"], 1)
	assert.Equal(t, "SellerA", results.Individual["keyboard"][0].Seller)

	// Both sellers carry both items. SellerB misses its threshold so its
	// delivery price counts: 2*18 + 45 + 7 = 88, beating SellerA's 90.
	require.Len(t, results.Cumulative, 2)
	assert.Equal(t, "SellerB", results.Cumulative[0].Seller)
	assert.InDelta(t, 88, results.Cumulative[0].Offer.CumulativePricePlusDelivery, 0.001)
	assert.Equal(t, "SellerA", results.Cumulative[1].Seller)
	assert.InDelta(t, 90, results.Cumulative[1].Offer.CumulativePricePlusDelivery, 0.001)

	// Every item has a qualifying individual deal, so individual wins even
	// though the cumulative bundle is cheaper.
	assert.Equal(t, domain.DealIndividual, results.Overall.BestDealType)
	assert.InDelta(t, 90, results.Overall.BestTotalPrice, 0.001)
	assert.False(t, results.ComputedAt.IsZero())
}

func TestEngine_ComputeDeals_SingleItemSkipsCumulative(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().ListItems(mock.Anything).Return(testBasket()[:1], nil).Once()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(nil).
		Once()

	eng := NewEngine(mockStore, &stubExtractor{})
	results, err := eng.ComputeDeals(context.Background())
	require.NoError(t, err)

	assert.Empty(t, results.Cumulative)
	assert.Equal(t, domain.DealIndividual, results.Overall.BestDealType)
	assert.InDelta(t, 40, results.Overall.BestTotalPrice, 0.001)
}

func TestEngine_ComputeDeals_EmptyBasket(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().ListItems(mock.Anything).Return(nil, nil).Once()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(nil).
		Once()

	eng := NewEngine(mockStore, &stubExtractor{})
	results, err := eng.ComputeDeals(context.Background())
	require.NoError(t, err)

	assert.Empty(t, results.Individual)
	assert.Empty(t, results.Cumulative)
	assert.Zero(t, results.Overall.BestTotalPrice)
}

func TestEngine_ComputeDeals_ListError(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().ListItems(mock.Anything).Return(nil, errors.New("db down")).Once()

	eng := NewEngine(mockStore, &stubExtractor{})
	_, err := eng.ComputeDeals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing basket items")
}

func TestEngine_ComputeDeals_SaveError(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().ListItems(mock.Anything).Return(testBasket(), nil).Once()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(errors.New("disk full")).
		Once()

	eng := NewEngine(mockStore, &stubExtractor{})
	_, err := eng.ComputeDeals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving deal results")
}

func TestEngine_RefreshBasket(t *testing.T) {
	t.Parallel()

	items := testBasket()
	freshDeals := []domain.Deal{
		{Seller: "SellerA", Price: 19, FreeDelivery: fp(30), Availability: true},
	}

	fetcher := &stubFetcher{pages: map[string]string{
		"https://example.com/mouse":    "<html>mouse</html>",
		"https://example.com/keyboard": "<html>keyboard</html>",
	}}
	extractor := &stubExtractor{offers: map[string][]domain.Deal{
		"<html>mouse</html>":    freshDeals,
		"<html>keyboard</html>": freshDeals,
	}}

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().InsertJobRun(mock.Anything, "refresh_basket").Return("job-1", nil).Once()
	// Once to walk the basket, once again inside the recomputation.
	mockStore.EXPECT().ListItems(mock.Anything).Return(items, nil).Twice()
	mockStore.EXPECT().
		UpsertItem(mock.Anything, mock.AnythingOfType("*domain.Item")).
		Run(func(_ context.Context, item *domain.Item) {
			assert.Equal(t, freshDeals, item.Deals)
		}).
		Return(nil).
		Twice()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(nil).
		Once()
	mockStore.EXPECT().CompleteJobRun(mock.Anything, "job-1", "success", "", 2).Return(nil).Once()

	eng := NewEngine(mockStore, extractor, WithFetcher(fetcher))
	require.NoError(t, eng.RefreshBasket(context.Background()))
}

func TestEngine_RefreshBasket_NoFetcher(t *testing.T) {
	t.Parallel()

	eng := NewEngine(storeMocks.NewMockStore(t), &stubExtractor{})
	err := eng.RefreshBasket(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page fetcher")
}

func TestEngine_RefreshBasket_FetchFailureSkipsItem(t *testing.T) {
	t.Parallel()

	items := testBasket()
	fetcher := &stubFetcher{
		pages: map[string]string{"https://example.com/keyboard": "<html>keyboard</html>"},
		errs:  map[string]error{"https://example.com/mouse": errors.New("timeout")},
	}
	extractor := &stubExtractor{offers: map[string][]domain.Deal{
		"<html>keyboard</html>": {{Seller: "SellerA", Price: 48, Availability: true}},
	}}

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().InsertJobRun(mock.Anything, "refresh_basket").Return("job-2", nil).Once()
	mockStore.EXPECT().ListItems(mock.Anything).Return(items, nil).Twice()
	mockStore.EXPECT().
		UpsertItem(mock.Anything, mock.AnythingOfType("*domain.Item")).
		Return(nil).
		Once()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(nil).
		Once()
	mockStore.EXPECT().CompleteJobRun(mock.Anything, "job-2", "success", "", 1).Return(nil).Once()

	eng := NewEngine(mockStore, extractor, WithFetcher(fetcher))
	require.NoError(t, eng.RefreshBasket(context.Background()))
}

func TestEngine_RefreshBasket_DailyLimitStops(t *testing.T) {
	t.Parallel()

	items := testBasket()
	fetcher := &stubFetcher{errs: map[string]error{
		"https://example.com/mouse":    fmt.Errorf("wait: %w", scraper.ErrDailyLimitReached),
		"https://example.com/keyboard": fmt.Errorf("wait: %w", scraper.ErrDailyLimitReached),
	}}

	mockStore := storeMocks.NewMockStore(t)
	mockStore.EXPECT().InsertJobRun(mock.Anything, "refresh_basket").Return("job-3", nil).Once()
	mockStore.EXPECT().ListItems(mock.Anything).Return(items, nil).Twice()
	mockStore.EXPECT().
		SaveResults(mock.Anything, mock.AnythingOfType("*domain.DealResults")).
		Return(nil).
		Once()
	mockStore.EXPECT().CompleteJobRun(mock.Anything, "job-3", "success", "", 0).Return(nil).Once()

	eng := NewEngine(mockStore, &stubExtractor{}, WithFetcher(fetcher))
	require.NoError(t, eng.RefreshBasket(context.Background()))
}
