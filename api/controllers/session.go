package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/middleware"
	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	sessionsvc "github.com/herbpoint/kiosk-backend/internal/session"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// SessionStart opens a session for a kiosk device. This is the only
// kiosk endpoint that does not require a session token; it issues one.
func SessionStart(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var payload startSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Start(r.Context(), sessionsvc.StartInput{
			DeviceID: payload.DeviceID,
			Language: payload.Language,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionResponse(result.Session, result.Token))
	}
}

// SessionGet returns the caller's current session.
func SessionGet(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		sess, err := svc.Get(r.Context(), middleware.DeviceIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess, ""))
	}
}

// SessionSetLanguage switches the session language mid-flow.
func SessionSetLanguage(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var payload setLanguageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.SetLanguage(r.Context(), middleware.DeviceIDFromContext(r.Context()), payload.Language)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess, ""))
	}
}

// SessionReset returns the kiosk to the home screen, discarding the
// session and its cart. Both the countdown's "Start New Order" button
// and the staff reset gesture land here.
func SessionReset(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		if err := svc.Reset(r.Context(), middleware.DeviceIDFromContext(r.Context()), "manual"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}

type startSessionRequest struct {
	DeviceID uuid.UUID `json:"device_id" validate:"required"`
	Language string    `json:"language"`
}

type setLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

type sessionResponse struct {
	SessionID  string  `json:"session_id"`
	DeviceID   string  `json:"device_id"`
	StoreID    string  `json:"store_id"`
	Language   string  `json:"language"`
	Direction  string  `json:"direction"`
	State      string  `json:"state"`
	CustomerID *string `json:"customer_id,omitempty"`
	Token      string  `json:"token,omitempty"`
}

func newSessionResponse(sess *sessionsvc.Session, token string) sessionResponse {
	return sessionResponse{
		SessionID:  sess.SessionID,
		DeviceID:   sess.DeviceID,
		StoreID:    sess.StoreID,
		Language:   string(sess.Language),
		Direction:  string(sess.Direction()),
		State:      string(sess.State),
		CustomerID: sess.CustomerID,
		Token:      token,
	}
}
