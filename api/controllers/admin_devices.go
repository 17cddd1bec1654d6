package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	devicessvc "github.com/herbpoint/kiosk-backend/internal/devices"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// AdminDeviceRegister enrolls a kiosk terminal under a store.
func AdminDeviceRegister(svc devicessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerDeviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.Register(r.Context(), storeID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDeviceResponse(device))
	}
}

// AdminDeviceList lists a store's kiosks.
func AdminDeviceList(svc devicessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		devices, err := svc.ListByStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]deviceResponse, 0, len(devices))
		for i := range devices {
			out = append(out, newDeviceResponse(&devices[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminDeviceHeartbeat records that a kiosk is alive and returns its
// current registration.
func AdminDeviceHeartbeat(svc devicessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid device id"))
			return
		}

		device, err := svc.Heartbeat(r.Context(), deviceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDeviceResponse(device))
	}
}

// AdminDeviceRetire takes a kiosk out of service. Retired devices can
// no longer open sessions.
func AdminDeviceRetire(svc devicessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid device id"))
			return
		}

		if err := svc.Retire(r.Context(), deviceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}

type registerDeviceRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type deviceResponse struct {
	ID         string     `json:"id"`
	StoreID    string     `json:"store_id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func newDeviceResponse(device *models.KioskDevice) deviceResponse {
	return deviceResponse{
		ID:         device.ID.String(),
		StoreID:    device.StoreID.String(),
		Name:       device.Name,
		Status:     device.Status.String(),
		LastSeenAt: device.LastSeenAt,
		CreatedAt:  device.CreatedAt,
	}
}
