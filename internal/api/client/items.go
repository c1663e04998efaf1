package client

import (
	"context"
	"net/url"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// AddItemRequest is the payload for adding a basket item.
type AddItemRequest struct {
	Title    string `json:"title,omitempty"`
	URL      string `json:"url"`
	Quantity int    `json:"quantity,omitempty"`
	Markup   string `json:"markup"`
}

// ItemsResponse wraps the basket listing response.
type ItemsResponse struct {
	Items []domain.Item `json:"items"`
	Total int           `json:"total"`
}

// AddItem scrapes the given markup server-side and stores the item.
func (c *Client) AddItem(ctx context.Context, req *AddItemRequest) (*domain.Item, error) {
	var item domain.Item
	if err := c.post(ctx, "/api/v1/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns every basket item.
func (c *Client) ListItems(ctx context.Context) (*ItemsResponse, error) {
	var resp ItemsResponse
	if err := c.get(ctx, "/api/v1/items", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateQuantity changes an item's quantity.
func (c *Client) UpdateQuantity(ctx context.Context, title string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.put(ctx, "/api/v1/items/"+url.PathEscape(title)+"/quantity", body, nil)
}

// DeleteItem removes one item from the basket.
func (c *Client) DeleteItem(ctx context.Context, title string) error {
	return c.del(ctx, "/api/v1/items/"+url.PathEscape(title), nil)
}

// ClearBasket removes every item from the basket.
func (c *Client) ClearBasket(ctx context.Context) error {
	return c.del(ctx, "/api/v1/items", nil)
}
