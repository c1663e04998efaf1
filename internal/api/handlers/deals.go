package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/marcofalcone/basket-deal-tracker/internal/store"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// DealComputer runs the deal pipeline over the stored basket.
type DealComputer interface {
	ComputeDeals(ctx context.Context) (*domain.DealResults, error)
}

// DealsHandler handles deal computation and retrieval.
type DealsHandler struct {
	store  store.Store
	engine DealComputer
}

// NewDealsHandler creates a new DealsHandler.
func NewDealsHandler(s store.Store, eng DealComputer) *DealsHandler {
	return &DealsHandler{store: s, engine: eng}
}

// FindDealsOutput is the response for a deal computation.
type FindDealsOutput struct {
	Body domain.DealResults
}

// GetDealsOutput is the response for retrieving the last computed snapshot.
// Computed is false when the basket changed since the last computation (or
// none ever ran); Results is omitted in that case.
type GetDealsOutput struct {
	Body struct {
		Computed bool                `json:"computed"`
		Results  *domain.DealResults `json:"results,omitempty"`
	}
}

// FindDeals runs the full deal pipeline and returns the persisted snapshot.
func (h *DealsHandler) FindDeals(ctx context.Context, _ *struct{}) (*FindDealsOutput, error) {
	results, err := h.engine.ComputeDeals(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("computing deals: " + err.Error())
	}
	return &FindDealsOutput{Body: *results}, nil
}

// GetDeals returns the last computed snapshot, if it is still current.
func (h *DealsHandler) GetDeals(ctx context.Context, _ *struct{}) (*GetDealsOutput, error) {
	resp := &GetDealsOutput{}

	results, err := h.store.GetResults(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading deal results: " + err.Error())
	}

	resp.Body.Computed = true
	resp.Body.Results = results
	return resp, nil
}

// RegisterDealRoutes registers deal endpoints with the Huma API.
func RegisterDealRoutes(api huma.API, h *DealsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "find-deals",
		Method:      http.MethodPost,
		Path:        "/api/v1/deals/find",
		Summary:     "Compute the best deals for the basket",
		Description: "Filters unavailable offers, ranks per-item individual deals, builds " +
			"the cheapest single-seller bundle, and picks the overall cheapest strategy.",
		Tags:   []string{"deals"},
		Errors: []int{http.StatusInternalServerError},
	}, h.FindDeals)

	huma.Register(api, huma.Operation{
		OperationID: "get-deals",
		Method:      http.MethodGet,
		Path:        "/api/v1/deals",
		Summary:     "Get the last computed deals",
		Description: "Returns computed=false when the basket changed since the last " +
			"computation, so stale deals are never served.",
		Tags:   []string{"deals"},
		Errors: []int{http.StatusInternalServerError},
	}, h.GetDeals)
}
