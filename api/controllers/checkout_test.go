package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/herbpoint/kiosk-backend/internal/checkout"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

type stubCheckoutService struct {
	result    *checkoutsvc.Result
	err       error
	lastInput checkoutsvc.SubmitInput
}

func (s *stubCheckoutService) Submit(_ context.Context, input checkoutsvc.SubmitInput) (*checkoutsvc.Result, error) {
	s.lastInput = input
	return s.result, s.err
}

func TestCheckoutSubmit(t *testing.T) {
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		OrderID:       uuid.NewString(),
		DisplayNumber: 7,
		Status:        "pending",
		TotalCents:    2825,
		Total:         "28.25",
	}}
	handler := CheckoutSubmit(svc, nil)

	body := bytes.NewReader([]byte(`{"customer_name":"Sam"}`))
	req := sessionContext(httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/checkout", body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastInput.CustomerName != "Sam" {
		t.Fatalf("customer name not forwarded")
	}

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DisplayNumber != 7 {
		t.Fatalf("unexpected display number %d", envelope.Data.DisplayNumber)
	}
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	handler := CheckoutSubmit(&stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}, nil)

	req := sessionContext(httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/checkout", bytes.NewReader([]byte(`{}`))))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutSubmitBadEmail(t *testing.T) {
	handler := CheckoutSubmit(&stubCheckoutService{}, nil)

	req := sessionContext(httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/checkout", bytes.NewReader([]byte(`{"customer_email":"not-an-email"}`))))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
