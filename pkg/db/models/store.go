package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lib/pq"
)

// Store is a retail location that kiosks and orders belong to.
type Store struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string          `gorm:"column:name;not null"`
	AddressLine1       string          `gorm:"column:address_line1;not null"`
	City               string          `gorm:"column:city;not null"`
	Province           string          `gorm:"column:province;not null"`
	PostalCode         string          `gorm:"column:postal_code;not null"`
	Country            string          `gorm:"column:country;not null;default:'CA'"`
	Lat                float64         `gorm:"column:lat"`
	Lng                float64         `gorm:"column:lng"`
	Timezone           string          `gorm:"column:timezone;not null;default:'America/Toronto'"`
	TaxRate            decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,4);not null"`
	PickupInstructions *string         `gorm:"column:pickup_instructions"`
	Languages          pq.StringArray  `gorm:"column:languages;type:text[];not null;default:ARRAY['en']::text[]"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
