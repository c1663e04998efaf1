package dealengine

import (
	"math"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// FindBestOverallDeal compares buying every item from its best individual
// seller against buying everything from the best common seller.
//
// The rule is deliberately asymmetric: cumulative wins only when the
// individual plan does not exist at all, or when it is incomplete (some item
// has no qualifying individual deal) and the cumulative bundle is cheaper
// than the partial individual total. An individual plan missing an item is
// not actually executable, so cumulative acts as a completeness fallback
// rather than a pure price competitor. An item with no qualifying deal
// contributes zero to the individual total; it is omitted, not treated as
// infinitely expensive.
func FindBestOverallDeal(
	individual domain.BestIndividualDeals,
	cumulative []domain.SellerOffer,
) domain.BestOverallDeal {
	var (
		totalIndividualCost  float64
		notAllItemsAvailable bool
	)

	qualifying := 0
	for _, deals := range individual {
		qualifying += len(deals)
	}
	if qualifying > 0 {
		for _, deals := range individual {
			if len(deals) == 0 {
				notAllItemsAvailable = true
				continue
			}
			totalIndividualCost += deals[0].TotalPricePlusDelivery
		}
	}

	var bestCumulativeCost float64
	if len(cumulative) > 0 {
		bestCumulativeCost = cumulative[0].Offer.CumulativePricePlusDelivery
	}

	chooseCumulative := totalIndividualCost == 0 ||
		(notAllItemsAvailable && bestCumulativeCost > 0 && bestCumulativeCost < totalIndividualCost)

	if chooseCumulative {
		return domain.BestOverallDeal{
			BestDealType:   domain.DealCumulative,
			BestTotalPrice: round2(bestCumulativeCost),
		}
	}
	return domain.BestOverallDeal{
		BestDealType:   domain.DealIndividual,
		BestTotalPrice: round2(totalIndividualCost),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
