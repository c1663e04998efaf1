package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first number in scraped text such as
// "1.234 opinioni", "24,90 €" or "Spedizione gratuita sopra i 50€".
// The site uses comma as decimal separator and dot as thousands separator.
var numberPattern = regexp.MustCompile(`\d+[.,]?\d*`)

// parseDecimal extracts a decimal value from scraped text, converting the
// comma decimal separator. Returns false when the text contains no number.
func parseDecimal(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseReviewCount extracts an integer review count, dropping thousands
// separators ("1.234 opinioni" -> 1234).
func parseReviewCount(s string) int {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ".", ""))
	if err != nil {
		return 0
	}
	return n
}

// parseRating decodes a seller rating from the reviews anchor class list,
// e.g. "merchant_reviews rating_image rate45" -> 4.5. Returns nil when the
// class carries no rating.
func parseRating(class string) *float64 {
	fields := strings.Fields(class)
	if len(fields) < 3 {
		return nil
	}
	raw := strings.TrimPrefix(fields[2], "rate")
	if raw == fields[2] {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	rating := n / 10.0
	return &rating
}
