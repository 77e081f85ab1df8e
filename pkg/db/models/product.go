package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

// Product represents a catalog listing. Prices are integer cents.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string              `gorm:"column:sku;not null;uniqueIndex"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	PriceCents  int64               `gorm:"column:price_cents;not null"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	Status      enums.ProductStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
