package dealengine

import (
	"sort"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// FindBestIndividualDeals ranks the deals for one item by total landed cost,
// cheapest first. A deal qualifies only when it has a free-delivery threshold
// and price*quantity meets it, so every ranked total is an actual
// free-shipping total. Deals with no threshold, or whose order total falls
// short of it, are excluded rather than ranked by price plus delivery: this
// is a "cheapest way to get free shipping" ranking, not a full landed-cost
// comparison. An empty result means no deal qualifies, which is a normal
// outcome for small orders.
//
// Qualifying deals are returned as copies annotated with the item name,
// quantity, and derived totals; the input slice is never mutated.
func FindBestIndividualDeals(itemName string, deals []domain.Deal, quantity int) []domain.Deal {
	best := make([]domain.Deal, 0, len(deals))
	for _, d := range deals {
		if d.FreeDelivery == nil || *d.FreeDelivery == 0 {
			continue
		}
		total := d.Price * float64(quantity)
		if total < *d.FreeDelivery {
			continue
		}

		d.Name = itemName
		d.Quantity = quantity
		d.TotalPrice = total
		// Threshold met, so delivery is waived.
		d.TotalPricePlusDelivery = total
		best = append(best, d)
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].TotalPricePlusDelivery < best[j].TotalPricePlusDelivery
	})
	return best
}
