package dealengine

import (
	"sort"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// FindBestCumulativeDeals finds every seller that offers all basket items and
// ranks them by the cost of buying the whole basket from that one seller,
// cheapest first. Seller matching is an exact, case-sensitive string match.
//
// Callers should only invoke this for baskets with at least two items; with a
// single item every one of its sellers is trivially "common" and the result
// duplicates the individual ranking.
func FindBestCumulativeDeals(basket domain.Basket) []domain.SellerOffer {
	sellers := commonSellers(basket)

	offers := make([]domain.SellerOffer, 0, len(sellers))
	for _, seller := range sellers {
		offer := accumulateSeller(basket, seller)
		applyDeliveryPrice(&offer)
		offers = append(offers, domain.SellerOffer{Seller: seller, Offer: offer})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Offer.CumulativePricePlusDelivery <
			offers[j].Offer.CumulativePricePlusDelivery
	})
	return offers
}

// commonSellers intersects the seller sets of all basket items. The result
// keeps the order in which sellers first appear in the first item's deals,
// so accumulation and ranking stay deterministic.
func commonSellers(basket domain.Basket) []string {
	if len(basket) == 0 {
		return nil
	}

	var candidates []string
	seen := make(map[string]struct{})
	for _, d := range basket[0].Deals {
		if _, dup := seen[d.Seller]; dup {
			continue
		}
		seen[d.Seller] = struct{}{}
		candidates = append(candidates, d.Seller)
	}

	for _, item := range basket[1:] {
		itemSellers := make(map[string]struct{}, len(item.Deals))
		for _, d := range item.Deals {
			itemSellers[d.Seller] = struct{}{}
		}

		common := candidates[:0]
		for _, s := range candidates {
			if _, ok := itemSellers[s]; ok {
				common = append(common, s)
			}
		}
		candidates = common
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// accumulateSeller sums price*quantity for one seller across the basket, in
// basket order. Items without deals or with a non-positive quantity are
// skipped silently. Seller metadata is copied from each matching deal as it
// is visited, so the last item processed wins; metadata is assumed identical
// across a seller's entries anyway.
func accumulateSeller(basket domain.Basket, seller string) domain.CumulativeOffer {
	var offer domain.CumulativeOffer
	for _, item := range basket {
		if len(item.Deals) == 0 || item.Quantity < 1 {
			continue
		}
		deal, ok := findSellerDeal(item.Deals, seller)
		if !ok {
			continue
		}

		offer.Name = item.Title
		offer.SellerLink = deal.SellerLink
		offer.SellerReviews = deal.SellerReviews
		offer.SellerReviewsLink = deal.SellerReviewsLink
		offer.SellerRating = deal.SellerRating
		offer.DeliveryPrice = deal.DeliveryPrice
		offer.FreeDelivery = deal.FreeDelivery
		offer.Availability = deal.Availability
		offer.CumulativePrice += deal.Price * float64(item.Quantity)
	}
	return offer
}

func findSellerDeal(deals []domain.Deal, seller string) (domain.Deal, bool) {
	for _, d := range deals {
		if d.Seller == seller {
			return d, true
		}
	}
	return domain.Deal{}, false
}

// applyDeliveryPrice settles the free-delivery rule on the cumulative total:
// the threshold waives delivery when the bundle reaches it, otherwise the
// seller's delivery charge is added. An absent delivery price accumulates as
// zero rather than poisoning the total.
func applyDeliveryPrice(offer *domain.CumulativeOffer) {
	if offer.FreeDelivery != nil && *offer.FreeDelivery != 0 &&
		offer.CumulativePrice >= *offer.FreeDelivery {
		offer.CumulativePricePlusDelivery = offer.CumulativePrice
		return
	}
	offer.CumulativePricePlusDelivery = offer.CumulativePrice + offer.DeliveryPrice
}
