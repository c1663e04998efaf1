package client

import (
	"context"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// DealsResponse wraps the last-computed-deals response.
type DealsResponse struct {
	Computed bool                `json:"computed"`
	Results  *domain.DealResults `json:"results,omitempty"`
}

// FindDeals triggers a full deal computation and returns the results.
func (c *Client) FindDeals(ctx context.Context) (*domain.DealResults, error) {
	var results domain.DealResults
	if err := c.post(ctx, "/api/v1/deals/find", nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// GetDeals returns the last computed snapshot, or Computed=false when the
// basket changed since.
func (c *Client) GetDeals(ctx context.Context) (*DealsResponse, error) {
	var resp DealsResponse
	if err := c.get(ctx, "/api/v1/deals", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
