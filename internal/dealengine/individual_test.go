package dealengine_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcofalcone/basket-deal-tracker/internal/dealengine"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

func fp(v float64) *float64 { return &v }

func TestFindBestIndividualDeals(t *testing.T) {
	t.Parallel()

	t.Run("deal meeting its threshold qualifies with delivery waived", func(t *testing.T) {
		t.Parallel()

		deals := []domain.Deal{
			{Seller: "ShopA", Price: 50, DeliveryPrice: 5, FreeDelivery: fp(40)},
		}
		best := dealengine.FindBestIndividualDeals("SSD 1TB", deals, 1)

		require.Len(t, best, 1)
		assert.Equal(t, "SSD 1TB", best[0].Name)
		assert.Equal(t, 1, best[0].Quantity)
		assert.Equal(t, 50.0, best[0].TotalPrice)
		assert.Equal(t, 50.0, best[0].TotalPricePlusDelivery)
	})

	t.Run("no threshold never qualifies regardless of price", func(t *testing.T) {
		t.Parallel()

		deals := []domain.Deal{
			{Seller: "ShopA", Price: 999, FreeDelivery: nil},
			{Seller: "ShopB", Price: 999, FreeDelivery: fp(0)},
		}
		best := dealengine.FindBestIndividualDeals("GPU", deals, 3)
		assert.Empty(t, best)
	})

	t.Run("total below threshold does not qualify", func(t *testing.T) {
		t.Parallel()

		deals := []domain.Deal{
			{Seller: "ShopA", Price: 10, FreeDelivery: fp(40)},
		}
		assert.Empty(t, dealengine.FindBestIndividualDeals("Cable", deals, 3))

		// The same deal qualifies once quantity pushes the total over.
		best := dealengine.FindBestIndividualDeals("Cable", deals, 4)
		require.Len(t, best, 1)
		assert.Equal(t, 40.0, best[0].TotalPricePlusDelivery)
	})

	t.Run("results sorted ascending by total with stable ties", func(t *testing.T) {
		t.Parallel()

		deals := []domain.Deal{
			{Seller: "Pricey", Price: 90, FreeDelivery: fp(50)},
			{Seller: "TieFirst", Price: 60, FreeDelivery: fp(50)},
			{Seller: "Cheap", Price: 55, FreeDelivery: fp(50)},
			{Seller: "TieSecond", Price: 60, FreeDelivery: fp(50)},
		}
		best := dealengine.FindBestIndividualDeals("RAM", deals, 1)

		require.Len(t, best, 4)
		totals := make([]float64, len(best))
		for i, d := range best {
			totals[i] = d.TotalPricePlusDelivery
		}
		assert.True(t, sort.Float64sAreSorted(totals), "totals must be non-decreasing: %v", totals)

		assert.Equal(t, "Cheap", best[0].Seller)
		assert.Equal(t, "TieFirst", best[1].Seller)
		assert.Equal(t, "TieSecond", best[2].Seller)
		assert.Equal(t, "Pricey", best[3].Seller)
	})

	t.Run("input deals are not annotated in place", func(t *testing.T) {
		t.Parallel()

		deals := []domain.Deal{
			{Seller: "ShopA", Price: 50, FreeDelivery: fp(40)},
		}
		_ = dealengine.FindBestIndividualDeals("SSD", deals, 1)

		assert.Empty(t, deals[0].Name)
		assert.Zero(t, deals[0].TotalPrice)
	})

	t.Run("empty deal list yields empty ranking", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, dealengine.FindBestIndividualDeals("X", nil, 1))
	})
}
