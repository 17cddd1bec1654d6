package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/middleware"
	sessionsvc "github.com/herbpoint/kiosk-backend/internal/session"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
)

type stubSessionService struct {
	result *sessionsvc.StartResult
	sess   *sessionsvc.Session
	err    error
	reset  bool
}

func (s *stubSessionService) Start(context.Context, sessionsvc.StartInput) (*sessionsvc.StartResult, error) {
	return s.result, s.err
}

func (s *stubSessionService) Get(context.Context, string) (*sessionsvc.Session, error) {
	return s.sess, s.err
}

func (s *stubSessionService) SetLanguage(_ context.Context, _ string, language string) (*sessionsvc.Session, error) {
	if s.sess != nil {
		s.sess.Language = i18n.Language(language)
	}
	return s.sess, s.err
}

func (s *stubSessionService) AttachCustomer(context.Context, string, uuid.UUID) (*sessionsvc.Session, error) {
	return s.sess, s.err
}

func (s *stubSessionService) EnterConfirmation(context.Context, string) (*sessionsvc.Session, error) {
	return s.sess, s.err
}

func (s *stubSessionService) Reset(context.Context, string, string) error {
	s.reset = true
	return s.err
}

func (s *stubSessionService) HasSession(context.Context, string, string) (bool, error) {
	return s.sess != nil, nil
}

func browsingSession() *sessionsvc.Session {
	return &sessionsvc.Session{
		SessionID: uuid.NewString(),
		DeviceID:  uuid.NewString(),
		StoreID:   uuid.NewString(),
		Language:  "en",
		State:     sessionsvc.StateBrowsing,
	}
}

func TestSessionStart(t *testing.T) {
	sess := browsingSession()
	handler := SessionStart(&stubSessionService{result: &sessionsvc.StartResult{Session: sess, Token: "jwt-token"}}, nil)

	body, _ := json.Marshal(map[string]string{"device_id": sess.DeviceID, "language": "fr"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/sessions", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data sessionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "jwt-token" {
		t.Fatalf("expected token in start response")
	}
	if envelope.Data.State != "browsing" || envelope.Data.Direction != "ltr" {
		t.Fatalf("unexpected session payload %+v", envelope.Data)
	}
}

func TestSessionStartInvalidBody(t *testing.T) {
	handler := SessionStart(&stubSessionService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/sessions", bytes.NewReader([]byte(`{"device_id":"not-a-uuid"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSessionGetNoActiveSession(t *testing.T) {
	handler := SessionGet(&stubSessionService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no active session")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kiosk/session", nil)
	req = req.WithContext(middleware.WithDeviceID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestSessionReset(t *testing.T) {
	svc := &stubSessionService{}
	handler := SessionReset(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/session/reset", nil)
	req = req.WithContext(middleware.WithDeviceID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.reset {
		t.Fatalf("reset not invoked")
	}
}

func TestSessionSetLanguage(t *testing.T) {
	sess := browsingSession()
	handler := SessionSetLanguage(&stubSessionService{sess: sess}, nil)

	body := bytes.NewReader([]byte(`{"language":"ar"}`))
	req := httptest.NewRequest(http.MethodPut, "/api/v1/kiosk/session/language", body)
	req = req.WithContext(middleware.WithDeviceID(req.Context(), sess.DeviceID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data sessionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Language != "ar" || envelope.Data.Direction != "rtl" {
		t.Fatalf("unexpected language payload %+v", envelope.Data)
	}
}
