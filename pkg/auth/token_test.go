package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "kiosk-backend-test",
		ExpirationMinutes: 60,
	}
}

func testPayload() SessionTokenPayload {
	return SessionTokenPayload{
		SessionID: uuid.NewString(),
		StoreID:   uuid.New(),
		DeviceID:  uuid.New(),
		Language:  i18n.Language("en"),
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()
	customerID := uuid.New()
	payload.CustomerID = &customerID

	token, err := MintSessionToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != payload.SessionID {
		t.Fatalf("session id mismatch: %s vs %s", claims.SessionID, payload.SessionID)
	}
	if claims.StoreID != payload.StoreID {
		t.Fatalf("store id mismatch")
	}
	if claims.DeviceID != payload.DeviceID {
		t.Fatalf("device id mismatch")
	}
	if claims.Language != payload.Language {
		t.Fatalf("language mismatch: %s", claims.Language)
	}
	if claims.CustomerID == nil || *claims.CustomerID != customerID {
		t.Fatalf("customer id mismatch: %v", claims.CustomerID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	cfg := testJWTConfig()

	cases := []struct {
		name   string
		mutate func(*config.JWTConfig, *SessionTokenPayload)
	}{
		{"missing secret", func(c *config.JWTConfig, p *SessionTokenPayload) { c.Secret = "" }},
		{"missing issuer", func(c *config.JWTConfig, p *SessionTokenPayload) { c.Issuer = "" }},
		{"zero expiration", func(c *config.JWTConfig, p *SessionTokenPayload) { c.ExpirationMinutes = 0 }},
		{"blank session", func(c *config.JWTConfig, p *SessionTokenPayload) { p.SessionID = "  " }},
		{"nil store", func(c *config.JWTConfig, p *SessionTokenPayload) { p.StoreID = uuid.Nil }},
		{"nil device", func(c *config.JWTConfig, p *SessionTokenPayload) { p.DeviceID = uuid.Nil }},
		{"bad language", func(c *config.JWTConfig, p *SessionTokenPayload) { p.Language = i18n.Language("xx") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			p := testPayload()
			tc.mutate(&c, &p)
			if _, err := MintSessionToken(c, time.Now(), p); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-3*time.Hour), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected signature validation to fail")
	}
}

func TestParseSessionTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), testPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected issuer validation to fail")
	}
}

func TestMintSessionTokenUsesProvidedJTI(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()
	payload.JTI = "fixed-jti"

	token, err := MintSessionToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != "fixed-jti" {
		t.Fatalf("expected jti to round-trip, got %q", claims.ID)
	}
	if strings.TrimSpace(claims.ID) == "" {
		t.Fatalf("jti blank")
	}
}
