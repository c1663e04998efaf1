package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// ExtractHandler exposes the scraper directly, without touching the basket.
// Useful for inspecting what a listing page parses into.
type ExtractHandler struct {
	extractor MarkupExtractor
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(ex MarkupExtractor) *ExtractHandler {
	return &ExtractHandler{extractor: ex}
}

// ExtractInput is the request body for the extract endpoint.
type ExtractInput struct {
	Body struct {
		Markup string `json:"markup" minLength:"1" doc:"Listing page HTML to parse"`
	}
}

// ExtractOutput is the response body for the extract endpoint.
type ExtractOutput struct {
	Body struct {
		Name  string        `json:"name,omitempty" doc:"Item name found in the markup"`
		Deals []domain.Deal `json:"deals" doc:"Extracted seller offers"`
		Total int           `json:"total" doc:"Number of offers extracted"`
	}
}

// Extract parses listing markup into seller offers without storing anything.
func (h *ExtractHandler) Extract(ctx context.Context, input *ExtractInput) (*ExtractOutput, error) {
	deals, err := h.extractor.ExtractOffers(input.Body.Markup)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("extracting offers: " + err.Error())
	}
	if deals == nil {
		deals = []domain.Deal{}
	}

	// The name is best-effort; markup without a title node still yields offers.
	name, _ := h.extractor.ExtractItemName(input.Body.Markup)

	resp := &ExtractOutput{}
	resp.Body.Name = name
	resp.Body.Deals = deals
	resp.Body.Total = len(deals)
	return resp, nil
}

// RegisterExtractRoutes registers extract endpoints with the Huma API.
func RegisterExtractRoutes(api huma.API, h *ExtractHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "extract-offers",
		Method:      http.MethodPost,
		Path:        "/api/v1/extract",
		Summary:     "Extract seller offers from listing markup",
		Description: "Parses a price comparison listing page and returns the seller " +
			"offers it contains, without storing anything.",
		Tags:   []string{"extract"},
		Errors: []int{http.StatusUnprocessableEntity},
	}, h.Extract)
}
