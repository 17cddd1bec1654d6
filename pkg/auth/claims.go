package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/i18n"
)

// SessionTokenPayload captures the data available when minting a kiosk
// session JWT.
type SessionTokenPayload struct {
	SessionID  string
	StoreID    uuid.UUID
	DeviceID   uuid.UUID
	Language   i18n.Language
	CustomerID *uuid.UUID
	JTI        string
}

// SessionTokenClaims represents the typed JWT issued to kiosk devices.
type SessionTokenClaims struct {
	SessionID  string        `json:"session_id"`
	StoreID    uuid.UUID     `json:"store_id"`
	DeviceID   uuid.UUID     `json:"device_id"`
	Language   i18n.Language `json:"language"`
	CustomerID *uuid.UUID    `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}
