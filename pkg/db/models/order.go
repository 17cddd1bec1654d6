package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/enums"
)

// Order is a submitted kiosk pickup order. The cart itself never persists;
// only the converted order does.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	SessionID     string              `gorm:"column:session_id;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null;default:'Walk-in Customer'"`
	CustomerEmail *string             `gorm:"column:customer_email"`
	CustomerPhone *string             `gorm:"column:customer_phone"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null;default:'pay_at_pickup'"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	DisplayNumber int                 `gorm:"column:display_number;not null;default:0"`
	SubtotalCents int                 `gorm:"column:subtotal_cents;not null"`
	TaxCents      int                 `gorm:"column:tax_cents;not null"`
	TotalCents    int                 `gorm:"column:total_cents;not null"`
	Lines         []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is one purchased cart line snapshotted at checkout.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
}
