package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a line on an order. PriceCents is the product's unit price
// captured at creation time and never updated afterwards.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
