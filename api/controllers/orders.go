package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/middleware"
	"github.com/herbpoint/kiosk-backend/api/responses"
	orderssvc "github.com/herbpoint/kiosk-backend/internal/orders"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// OrderConfirmation returns the confirmation screen payload for an
// order placed in the caller's session, localized to the session
// language.
func OrderConfirmation(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		lang := i18n.Normalize(middleware.LanguageFromContext(r.Context()))
		conf, err := svc.Confirmation(r.Context(), orderID, middleware.SessionIDFromContext(r.Context()), lang)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conf)
	}
}
