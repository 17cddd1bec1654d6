package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a sellable item in a store's kiosk catalog.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID      `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	Category    string         `gorm:"column:category;not null"`
	Subcategory string         `gorm:"column:subcategory;not null"`
	StrainType  *string        `gorm:"column:strain_type"`
	Size        *string        `gorm:"column:size"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	THCPercent  *float64       `gorm:"column:thc_percent;type:numeric(5,2)"`
	CBDPercent  *float64       `gorm:"column:cbd_percent;type:numeric(5,2)"`
	ImageURL    *string        `gorm:"column:image_url"`
	QuickTags   pq.StringArray `gorm:"column:quick_tags;type:text[];not null;default:ARRAY[]::text[]"`
	Popularity  int            `gorm:"column:popularity;not null;default:0"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
