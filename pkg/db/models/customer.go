package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a returning shopper who can attach their identity to a kiosk
// session via the QR/short-code login path.
type Customer struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Email         *string   `gorm:"column:email;uniqueIndex"`
	Phone         *string   `gorm:"column:phone;uniqueIndex"`
	LoginCodeHash string    `gorm:"column:login_code_hash;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
