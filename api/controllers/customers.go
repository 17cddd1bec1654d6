package controllers

import (
	"net/http"

	"github.com/herbpoint/kiosk-backend/api/middleware"
	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	customerssvc "github.com/herbpoint/kiosk-backend/internal/customers"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// CustomerLogin attaches a returning customer to the kiosk session via
// their identifier and login code.
func CustomerLogin(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		var payload customerLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), customerssvc.LoginInput{
			DeviceID:   middleware.DeviceIDFromContext(r.Context()),
			Identifier: payload.Identifier,
			Code:       payload.Code,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess, ""))
	}
}

type customerLoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=120"`
	Code       string `json:"code" validate:"required,min=4,max=16"`
}
