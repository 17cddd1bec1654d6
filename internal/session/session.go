package session

import (
	"time"

	"github.com/herbpoint/kiosk-backend/pkg/i18n"
)

// State tracks where in the ordering flow a session is.
type State string

const (
	StateBrowsing     State = "browsing"
	StateConfirmation State = "confirmation"
)

// Session is the ephemeral per-device ordering context. It lives in Redis
// keyed by device, so a device can hold at most one session at a time.
type Session struct {
	SessionID  string        `json:"sessionId"`
	DeviceID   string        `json:"deviceId"`
	StoreID    string        `json:"storeId"`
	Language   i18n.Language `json:"language"`
	CustomerID *string       `json:"customerId,omitempty"`
	State      State         `json:"state"`
	StartedAt  time.Time     `json:"startedAt"`
}

// Direction reports the text direction for the session language.
func (s *Session) Direction() i18n.Direction {
	if s == nil {
		return i18n.DefaultLanguage.Direction()
	}
	return s.Language.Direction()
}
