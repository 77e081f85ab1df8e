package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

// Order aggregates a customer's line items. TotalPriceCents is always the
// recomputed sum of quantity times the item's captured unit price.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPriceCents int64             `gorm:"column:total_price_cents;not null;default:0"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
