package client

import (
	"context"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// ExtractResponse wraps the scraper debug response.
type ExtractResponse struct {
	Name  string        `json:"name,omitempty"`
	Deals []domain.Deal `json:"deals"`
	Total int           `json:"total"`
}

// Extract parses listing markup server-side without storing anything.
func (c *Client) Extract(ctx context.Context, markup string) (*ExtractResponse, error) {
	var resp ExtractResponse
	body := map[string]string{"markup": markup}
	if err := c.post(ctx, "/api/v1/extract", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
