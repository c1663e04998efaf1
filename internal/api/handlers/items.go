package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/marcofalcone/basket-deal-tracker/internal/store"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// MarkupExtractor turns listing page markup into seller offers.
type MarkupExtractor interface {
	ExtractOffers(markup string) ([]domain.Deal, error)
	ExtractItemName(markup string) (string, error)
}

// ItemsHandler handles basket item operations.
type ItemsHandler struct {
	store     store.Store
	extractor MarkupExtractor
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(s store.Store, ex MarkupExtractor) *ItemsHandler {
	return &ItemsHandler{store: s, extractor: ex}
}

// --- Input/Output types ---

// AddItemInput is the request body for adding a basket item.
type AddItemInput struct {
	Body struct {
		Title    string `json:"title,omitempty" doc:"Item title; derived from the markup when omitted"`
		URL      string `json:"url" minLength:"1" doc:"Listing page URL" example:"https://www.trovaprezzi.it/prezzi_monitor/dell-u2723qe.aspx"`
		Quantity int    `json:"quantity,omitempty" minimum:"1" doc:"Units wanted (default 1)" example:"2"`
		Markup   string `json:"markup" minLength:"1" doc:"Listing page HTML to scrape offers from"`
	}
}

// AddItemOutput is the response body for adding a basket item.
type AddItemOutput struct {
	Body domain.Item
}

// ListItemsOutput is the response for listing the basket.
type ListItemsOutput struct {
	Body struct {
		Items []domain.Item `json:"items"`
		Total int           `json:"total"`
	}
}

// UpdateQuantityInput is the input for changing an item's quantity.
type UpdateQuantityInput struct {
	Title string `path:"title" doc:"Item title"`
	Body  struct {
		Quantity int `json:"quantity" minimum:"1" doc:"New unit count" example:"3"`
	}
}

// UpdateQuantityOutput is the response for changing an item's quantity.
type UpdateQuantityOutput struct {
	Body struct {
		Title    string `json:"title"`
		Quantity int    `json:"quantity"`
	}
}

// DeleteItemInput is the input for removing a basket item.
type DeleteItemInput struct {
	Title string `path:"title" doc:"Item title"`
}

// DeleteItemOutput is the empty response for item removal.
type DeleteItemOutput struct{}

// ClearBasketOutput is the empty response for clearing the basket.
type ClearBasketOutput struct{}

// --- Handlers ---

// AddItem scrapes the submitted listing markup and stores the item with its
// extracted seller offers. Storing an item invalidates any computed results.
func (h *ItemsHandler) AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	deals, err := h.extractor.ExtractOffers(input.Body.Markup)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("extracting offers: " + err.Error())
	}

	title := input.Body.Title
	if title == "" {
		title, err = h.extractor.ExtractItemName(input.Body.Markup)
		if err != nil || title == "" {
			return nil, huma.Error422UnprocessableEntity("item title missing and not found in markup")
		}
	}

	quantity := input.Body.Quantity
	if quantity < 1 {
		quantity = 1
	}

	item := &domain.Item{
		Title:    title,
		URL:      input.Body.URL,
		Quantity: quantity,
		Deals:    deals,
	}
	if err := h.store.UpsertItem(ctx, item); err != nil {
		return nil, huma.Error500InternalServerError("storing item: " + err.Error())
	}

	return &AddItemOutput{Body: *item}, nil
}

// ListItems returns every basket item in insertion order.
func (h *ItemsHandler) ListItems(ctx context.Context, _ *struct{}) (*ListItemsOutput, error) {
	items, err := h.store.ListItems(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing items: " + err.Error())
	}
	if items == nil {
		items = []domain.Item{}
	}

	resp := &ListItemsOutput{}
	resp.Body.Items = items
	resp.Body.Total = len(items)
	return resp, nil
}

// UpdateQuantity changes how many units of an item the basket holds.
func (h *ItemsHandler) UpdateQuantity(
	ctx context.Context,
	input *UpdateQuantityInput,
) (*UpdateQuantityOutput, error) {
	err := h.store.UpdateItemQuantity(ctx, input.Title, input.Body.Quantity)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("item not found: " + input.Title)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("updating quantity: " + err.Error())
	}

	resp := &UpdateQuantityOutput{}
	resp.Body.Title = input.Title
	resp.Body.Quantity = input.Body.Quantity
	return resp, nil
}

// DeleteItem removes one item from the basket.
func (h *ItemsHandler) DeleteItem(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error) {
	err := h.store.DeleteItem(ctx, input.Title)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("item not found: " + input.Title)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("deleting item: " + err.Error())
	}
	return &DeleteItemOutput{}, nil
}

// ClearBasket removes every item from the basket.
func (h *ItemsHandler) ClearBasket(ctx context.Context, _ *struct{}) (*ClearBasketOutput, error) {
	if err := h.store.ClearBasket(ctx); err != nil {
		return nil, huma.Error500InternalServerError("clearing basket: " + err.Error())
	}
	return &ClearBasketOutput{}, nil
}

// RegisterItemRoutes registers basket item endpoints with the Huma API.
func RegisterItemRoutes(api huma.API, h *ItemsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "add-item",
		Method:      http.MethodPost,
		Path:        "/api/v1/items",
		Summary:     "Add an item to the basket",
		Description: "Scrapes seller offers from the submitted listing markup and stores " +
			"the item. Any previously computed deal results are invalidated.",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.AddItem)

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List basket items",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListItems)

	huma.Register(api, huma.Operation{
		OperationID: "update-item-quantity",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{title}/quantity",
		Summary:     "Change an item's quantity",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.UpdateQuantity)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-item",
		Method:        http.MethodDelete,
		Path:          "/api/v1/items/{title}",
		Summary:       "Remove an item from the basket",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.DeleteItem)

	huma.Register(api, huma.Operation{
		OperationID:   "clear-basket",
		Method:        http.MethodDelete,
		Path:          "/api/v1/items",
		Summary:       "Clear the basket",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusInternalServerError},
	}, h.ClearBasket)
}
