package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcofalcone/basket-deal-tracker/internal/api/handlers"
	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

func TestExtractHandler_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		extractor  *stubExtractor
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns extracted offers",
			body: map[string]any{"markup": "<html></html>"},
			extractor: &stubExtractor{
				deals: []domain.Deal{{Seller: "TechStore", Price: 199.90, Availability: true}},
				name:  "Dell U2723QE",
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":1`,
		},
		{
			name:       "markup without offers yields empty list",
			body:       map[string]any{"markup": "<html><body></body></html>"},
			extractor:  &stubExtractor{},
			wantStatus: http.StatusOK,
			wantBody:   `"deals":[]`,
		},
		{
			name:       "missing markup returns 422",
			body:       map[string]any{},
			extractor:  &stubExtractor{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "expected required property markup to be present",
		},
		{
			name:       "empty markup returns 422",
			body:       map[string]any{"markup": ""},
			extractor:  &stubExtractor{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "expected length >= 1",
		},
		{
			name:       "extractor error returns 422",
			body:       map[string]any{"markup": "<html></html>"},
			extractor:  &stubExtractor{offersErr: assert.AnError},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "extracting offers",
		},
		{
			name:       "invalid JSON returns 400",
			body:       strings.NewReader(`not json`),
			extractor:  &stubExtractor{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewExtractHandler(tt.extractor)

			_, api := humatest.New(t)
			handlers.RegisterExtractRoutes(api, h)

			resp := api.Post("/api/v1/extract", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}
