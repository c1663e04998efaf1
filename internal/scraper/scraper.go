// Package scraper turns price-comparison listing markup into normalized
// Deal records. It owns everything markup-related: selector traversal,
// number and rating normalization, and absolute-URL prefixing, so the deal
// engine only ever sees clean data.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// DefaultBaseURL prefixes the relative seller and offer links found in
// listing markup.
const DefaultBaseURL = "https://www.trovaprezzi.it"

// Scraper extracts seller offers from rendered listing pages.
type Scraper struct {
	baseURL string
}

// New creates a Scraper. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{baseURL: strings.TrimRight(baseURL, "/")}
}

// ExtractOffers parses listing markup and returns one Deal per offer row.
// Rows missing the seller or price node are skipped; optional fields
// (delivery price, free-delivery threshold, rating, availability) degrade
// to their zero values. A page with no offer rows yields an empty slice,
// not an error.
func (s *Scraper) ExtractOffers(markup string) ([]domain.Deal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing listing markup: %w", err)
	}

	var deals []domain.Deal
	doc.Find("#listing ul li").Each(func(_ int, row *goquery.Selection) {
		if deal, ok := s.extractOffer(row); ok {
			deals = append(deals, deal)
		}
	})
	return deals, nil
}

func (s *Scraper) extractOffer(row *goquery.Selection) (domain.Deal, bool) {
	seller := strings.TrimSpace(row.Find(".item_info .item_merchant a span").First().Text())
	price, priceOK := parseDecimal(row.Find(".item_price .item_basic_price").First().Text())
	if seller == "" || !priceOK {
		return domain.Deal{}, false
	}

	deal := domain.Deal{
		Seller: seller,
		Price:  price,
	}

	merchant := row.Find(".item_info .item_merchant")
	if href, ok := merchant.Find(".merchant_name_and_logo a").First().Attr("href"); ok {
		deal.SellerLink = s.absoluteURL(href)
	}

	reviews := merchant.Find(`.wrap_merchant_reviews a[class="merchant_reviews"]`).First()
	deal.SellerReviews = parseReviewCount(reviews.Text())
	if href, ok := reviews.Attr("href"); ok {
		deal.SellerReviewsLink = s.absoluteURL(href)
	}

	if class, ok := merchant.
		Find(`.wrap_merchant_reviews a[class^="merchant_reviews rating_image"]`).
		First().Attr("class"); ok {
		deal.SellerRating = parseRating(class)
	}

	if v, ok := parseDecimal(row.Find(".item_price .item_delivery_price").First().Text()); ok {
		deal.DeliveryPrice = v
	}
	if v, ok := parseDecimal(row.Find(".item_price .free_shipping_threshold span span span").First().Text()); ok && v > 0 {
		deal.FreeDelivery = &v
	}

	class, _ := row.Find(".item_price .item_availability span").First().Attr("class")
	deal.Availability = class == "available"

	if href, ok := row.Find(".item_actions a").First().Attr("href"); ok {
		deal.Link = s.absoluteURL(href)
	}

	return deal, true
}

// ExtractItemName pulls the product title from a listing page, joining the
// heading fragments the way the page renders them.
func (s *Scraper) ExtractItemName(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing listing markup: %w", err)
	}

	var parts []string
	doc.Find(".name_and_rating h1 strong, .name_and_rating h1").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func (s *Scraper) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return s.baseURL + href
}
