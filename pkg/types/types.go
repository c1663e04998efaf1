// Package domain defines the core business types for the basket deal tracker.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DealType identifies the winning purchase strategy.
type DealType string

// Deal type constants.
const (
	// DealIndividual buys each item from its own best-ranked seller.
	DealIndividual DealType = "individual"
	// DealCumulative buys every item from one common seller to combine shipping.
	DealCumulative DealType = "cumulative"
)

// Deal is one seller's priced offer for one basket item. The wire shape
// matches what the scraper produces and what the UI consumes.
type Deal struct {
	Seller            string   `json:"seller"                        db:"seller"`
	SellerLink        string   `json:"seller_link,omitempty"         db:"seller_link"`
	SellerReviews     int      `json:"seller_reviews"                db:"seller_reviews"`
	SellerReviewsLink string   `json:"seller_reviews_link,omitempty" db:"seller_reviews_link"`
	SellerRating      *float64 `json:"seller_rating"                 db:"seller_rating"`

	// Price is per unit. DeliveryPrice is the shipping charge that applies
	// when the free-delivery threshold is not met. FreeDelivery is the
	// minimum order total that waives delivery; nil means no threshold.
	Price         float64  `json:"price"          db:"price"`
	DeliveryPrice float64  `json:"delivery_price" db:"delivery_price"`
	FreeDelivery  *float64 `json:"free_delivery"  db:"free_delivery"`
	Availability  bool     `json:"availability"   db:"availability"`
	Link          string   `json:"link,omitempty" db:"link"`

	// Derived by the individual deal selector on qualifying deals only.
	Name                   string  `json:"name,omitempty"`
	Quantity               int     `json:"quantity,omitempty"`
	TotalPrice             float64 `json:"total_price,omitempty"`
	TotalPricePlusDelivery float64 `json:"total_price_plus_delivery,omitempty"`
}

// Item is one basket entry: a product page plus the competing offers
// scraped from it.
type Item struct {
	Title     string    `json:"title"    db:"title"`
	URL       string    `json:"url"      db:"url"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Deals     []Deal    `json:"deals"    db:"deals"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Basket is the ordered collection of items being compared. Order is
// insertion order; cumulative accumulation and last-item-wins metadata
// depend on it being stable.
type Basket []Item

// Titles returns the item titles in basket order.
func (b Basket) Titles() []string {
	titles := make([]string, len(b))
	for i := range b {
		titles[i] = b[i].Title
	}
	return titles
}

// BestIndividualDeals maps each item title to its qualifying deals,
// cheapest first. An empty slice for an item is a valid outcome.
type BestIndividualDeals map[string][]Deal

// CumulativeOffer is one common seller's bundle across the whole basket.
// Seller metadata comes from the last basket item processed for that
// seller; it is assumed identical across a seller's entries.
type CumulativeOffer struct {
	Name              string   `json:"name,omitempty"`
	SellerLink        string   `json:"sellerLink,omitempty"`
	SellerReviews     int      `json:"sellerReviews"`
	SellerReviewsLink string   `json:"sellerReviewsLink,omitempty"`
	SellerRating      *float64 `json:"sellerRating"`

	DeliveryPrice               float64  `json:"deliveryPrice"`
	FreeDelivery                *float64 `json:"freeDelivery"`
	Availability                bool     `json:"availability"`
	CumulativePrice             float64  `json:"cumulativePrice"`
	CumulativePricePlusDelivery float64  `json:"cumulativePricePlusDelivery"`
}

// SellerOffer pairs a seller name with its cumulative offer. It serializes
// as a single-key JSON object so a ranked list of sellers keeps explicit
// rank by slice position.
type SellerOffer struct {
	Seller string
	Offer  CumulativeOffer
}

// MarshalJSON emits {"sellerName": {...offer...}}.
func (s SellerOffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]CumulativeOffer{s.Seller: s.Offer})
}

// UnmarshalJSON accepts a single-key object and rejects anything else.
func (s *SellerOffer) UnmarshalJSON(data []byte) error {
	var m map[string]CumulativeOffer
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("seller offer: expected exactly one seller key, got %d", len(m))
	}
	for seller, offer := range m {
		s.Seller = seller
		s.Offer = offer
	}
	return nil
}

// BestOverallDeal names the cheapest strategy and its total, rounded to
// two decimals.
type BestOverallDeal struct {
	BestDealType   DealType `json:"best_deal_type"`
	BestTotalPrice float64  `json:"best_total_price"`
}

// DealResults is the durable snapshot of one engine run. It is cleared
// whenever basket contents change.
type DealResults struct {
	Individual BestIndividualDeals `json:"best_individual_deals"`
	Cumulative []SellerOffer       `json:"best_cumulative_deals"`
	Overall    BestOverallDeal     `json:"best_overall_deal"`
	ComputedAt time.Time           `json:"computed_at"`
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}
