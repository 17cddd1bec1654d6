package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/enums"
)

// KioskDevice is a registered self-service terminal tied to a store.
// Sessions may only be opened on active devices.
type KioskDevice struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index"`
	Name       string             `gorm:"column:name;not null"`
	Status     enums.DeviceStatus `gorm:"column:status;not null;default:'active'"`
	LastSeenAt *time.Time         `gorm:"column:last_seen_at"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
