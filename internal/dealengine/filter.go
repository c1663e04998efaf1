// Package dealengine implements the pure deal-optimization pipeline:
// availability filtering, per-item individual deal ranking, common-seller
// cumulative aggregation, and the overall strategy choice. Functions here
// do no I/O and no logging; callers own observability.
package dealengine

import (
	"strings"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// FilterUnavailable drops deals marked unavailable unless the seller name
// contains "amazon" (case-insensitive); those offers routinely come back in
// stock and stay visible. Deals with an empty seller name are kept as-is.
// The input slice is never mutated; survivors keep their relative order.
func FilterUnavailable(deals []domain.Deal) (removed int, kept []domain.Deal) {
	kept = make([]domain.Deal, 0, len(deals))
	for _, d := range deals {
		if !d.Availability && d.Seller != "" &&
			!strings.Contains(strings.ToLower(d.Seller), "amazon") {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	return removed, kept
}
