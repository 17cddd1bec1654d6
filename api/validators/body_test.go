package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

type samplePayload struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"min=0,max=99"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	body := `{"productId":"3e9f9802-51fb-4c16-a2e5-5ac9cc16efc8","qty":2}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Qty != 2 {
		t.Fatalf("unexpected qty %d", dest.Qty)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	body := `{"productId":"3e9f9802-51fb-4c16-a2e5-5ac9cc16efc8","qty":1,"extra":true}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	body := `{"productId":"not-a-uuid","qty":120}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["productId"] != "must be a valid uuid" {
		t.Fatalf("unexpected productId message %q", details["productId"])
	}
	if details["qty"] != "must be at most 99" {
		t.Fatalf("unexpected qty message %q", details["qty"])
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3", nil)
	got, err := ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || got != 1 {
		t.Fatalf("expected default 1, got %d err %v", got, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	if _, err = ParseQueryInt(r, "page", 1, 1, 100); err == nil {
		t.Fatalf("expected error for non-numeric")
	}

	r = httptest.NewRequest(http.MethodGet, "/?page=500", nil)
	if _, err = ParseQueryInt(r, "page", 1, 1, 100); err == nil {
		t.Fatalf("expected error for out of range")
	}
}

func TestParseQueryInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?cartVersion=42", nil)
	got, err := ParseQueryInt64(r, "cartVersion", 0)
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d err %v", got, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/?cartVersion=-1", nil)
	if _, err := ParseQueryInt64(r, "cartVersion", 0); err == nil {
		t.Fatalf("expected error for negative value")
	}
}
