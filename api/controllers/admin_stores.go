package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	storessvc "github.com/herbpoint/kiosk-backend/internal/stores"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// AdminStoreCreate registers a retail location.
func AdminStoreCreate(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		var payload createStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), storessvc.CreateInput{
			Name:               payload.Name,
			AddressLine1:       payload.AddressLine1,
			City:               payload.City,
			Province:           payload.Province,
			PostalCode:         payload.PostalCode,
			Country:            payload.Country,
			Timezone:           payload.Timezone,
			TaxRate:            payload.TaxRate,
			PickupInstructions: payload.PickupInstructions,
			Languages:          payload.Languages,
			Lat:                payload.Lat,
			Lng:                payload.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newStoreResponse(store))
	}
}

// AdminStoreGet returns one store.
func AdminStoreGet(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Get(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreResponse(store))
	}
}

// AdminStoreList lists active stores.
func AdminStoreList(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		stores, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]storeResponse, 0, len(stores))
		for i := range stores {
			out = append(out, newStoreResponse(&stores[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminStoreUpdate patches a store.
func AdminStoreUpdate(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Update(r.Context(), storeID, storessvc.UpdateInput{
			Name:               payload.Name,
			AddressLine1:       payload.AddressLine1,
			City:               payload.City,
			Province:           payload.Province,
			PostalCode:         payload.PostalCode,
			Timezone:           payload.Timezone,
			TaxRate:            payload.TaxRate,
			PickupInstructions: payload.PickupInstructions,
			Languages:          payload.Languages,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreResponse(store))
	}
}

// AdminStoreDeactivate soft-deletes a store.
func AdminStoreDeactivate(svc storessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stores service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func parseStoreID(r *http.Request) (uuid.UUID, error) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return storeID, nil
}

type createStoreRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	AddressLine1       string   `json:"address_line1" validate:"required,max=200"`
	City               string   `json:"city" validate:"required,max=80"`
	Province           string   `json:"province" validate:"max=40"`
	PostalCode         string   `json:"postal_code" validate:"max=12"`
	Country            string   `json:"country" validate:"max=2"`
	Timezone           string   `json:"timezone" validate:"max=64"`
	TaxRate            string   `json:"tax_rate"`
	PickupInstructions *string  `json:"pickup_instructions"`
	Languages          []string `json:"languages"`
	Lat                float64  `json:"lat"`
	Lng                float64  `json:"lng"`
}

type updateStoreRequest struct {
	Name               *string  `json:"name"`
	AddressLine1       *string  `json:"address_line1"`
	City               *string  `json:"city"`
	Province           *string  `json:"province"`
	PostalCode         *string  `json:"postal_code"`
	Timezone           *string  `json:"timezone"`
	TaxRate            *string  `json:"tax_rate"`
	PickupInstructions *string  `json:"pickup_instructions"`
	Languages          []string `json:"languages"`
}

type storeResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	AddressLine1       string    `json:"address_line1"`
	City               string    `json:"city"`
	Province           string    `json:"province"`
	PostalCode         string    `json:"postal_code"`
	Country            string    `json:"country"`
	Lat                float64   `json:"lat"`
	Lng                float64   `json:"lng"`
	Timezone           string    `json:"timezone"`
	TaxRate            string    `json:"tax_rate"`
	PickupInstructions *string   `json:"pickup_instructions,omitempty"`
	Languages          []string  `json:"languages"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newStoreResponse(store *models.Store) storeResponse {
	return storeResponse{
		ID:                 store.ID.String(),
		Name:               store.Name,
		AddressLine1:       store.AddressLine1,
		City:               store.City,
		Province:           store.Province,
		PostalCode:         store.PostalCode,
		Country:            store.Country,
		Lat:                store.Lat,
		Lng:                store.Lng,
		Timezone:           store.Timezone,
		TaxRate:            store.TaxRate.String(),
		PickupInstructions: store.PickupInstructions,
		Languages:          store.Languages,
		IsActive:           store.IsActive,
		CreatedAt:          store.CreatedAt,
		UpdatedAt:          store.UpdatedAt,
	}
}
