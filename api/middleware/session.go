package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/herbpoint/kiosk-backend/api/responses"
	pkgauth "github.com/herbpoint/kiosk-backend/pkg/auth"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// SessionChecker confirms the session referenced by a token is still live
// in the session store. Tokens outlive sessions that were reset.
type SessionChecker interface {
	HasSession(ctx context.Context, deviceID, sessionID string) (bool, error)
}

// KioskSession validates a bearer session token and seeds the request
// context with the session claims.
func KioskSession(cfg config.JWTConfig, checker SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(r.Context(), claims.DeviceID.String(), claims.SessionID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
			}

			ctx := WithSessionID(r.Context(), claims.SessionID)
			ctx = WithDeviceID(ctx, claims.DeviceID.String())
			ctx = WithStoreID(ctx, claims.StoreID.String())
			ctx = WithLanguage(ctx, string(claims.Language))
			if claims.CustomerID != nil {
				ctx = WithCustomerID(ctx, claims.CustomerID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"session_id": claims.SessionID,
					"device_id":  claims.DeviceID.String(),
					"store_id":   claims.StoreID.String(),
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
