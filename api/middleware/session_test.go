package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/herbpoint/kiosk-backend/pkg/auth"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
)

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s stubSessionChecker) HasSession(context.Context, string, string) (bool, error) {
	return s.ok, s.err
}

func testSessionJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
}

func mintTestSessionToken(t *testing.T, cfg config.JWTConfig, sessionID string, storeID, deviceID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(cfg, time.Now(), pkgauth.SessionTokenPayload{
		SessionID: sessionID,
		StoreID:   storeID,
		DeviceID:  deviceID,
		Language:  i18n.DefaultLanguage,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestKioskSessionRejectsMissingToken(t *testing.T) {
	handler := KioskSession(testSessionJWTConfig(), stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestKioskSessionRejectsInvalidToken(t *testing.T) {
	handler := KioskSession(testSessionJWTConfig(), stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestKioskSessionRejectsStaleSession(t *testing.T) {
	cfg := testSessionJWTConfig()
	token := mintTestSessionToken(t, cfg, "sess-1", uuid.New(), uuid.New())

	handler := KioskSession(cfg, stubSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for reset session got %d", resp.Code)
	}
}

func TestKioskSessionSeedsContext(t *testing.T) {
	cfg := testSessionJWTConfig()
	storeID := uuid.New()
	deviceID := uuid.New()
	token := mintTestSessionToken(t, cfg, "sess-1", storeID, deviceID)

	var captured struct {
		session  string
		device   string
		store    string
		language string
	}
	handler := KioskSession(cfg, stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.session = SessionIDFromContext(r.Context())
		captured.device = DeviceIDFromContext(r.Context())
		captured.store = StoreIDFromContext(r.Context())
		captured.language = LanguageFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.session != "sess-1" {
		t.Fatalf("session id not propagated: %q", captured.session)
	}
	if captured.device != deviceID.String() {
		t.Fatalf("device id not propagated")
	}
	if captured.store != storeID.String() {
		t.Fatalf("store id not propagated")
	}
	if captured.language != "en" {
		t.Fatalf("language not propagated: %q", captured.language)
	}
}
