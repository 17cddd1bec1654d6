package controllers

import (
	"net/http"

	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	storessvc "github.com/herbpoint/kiosk-backend/internal/stores"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	"github.com/herbpoint/kiosk-backend/pkg/maps"
)

// AddressAutocomplete resolves partial address text into candidate
// locations for the store admin forms.
func AddressAutocomplete(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 10)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.SuggestAddresses(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]addressSuggestion, 0, len(results))
		for _, result := range results {
			out = append(out, newAddressSuggestion(result))
		}
		responses.WriteSuccess(w, out)
	}
}

type addressSuggestion struct {
	PlaceName string  `json:"place_name"`
	Address   string  `json:"address,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Relevance float64 `json:"relevance"`
}

func newAddressSuggestion(result maps.GeocodeResult) addressSuggestion {
	return addressSuggestion{
		PlaceName: result.PlaceName,
		Address:   result.Address,
		Lat:       result.Location.Latitude,
		Lng:       result.Location.Longitude,
		Relevance: result.Relevance,
	}
}
