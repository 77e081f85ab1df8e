package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	"github.com/jcastellanos/marketcart-backend/pkg/pagination"
)

// ProductView is the catalog representation returned by the API.
type ProductView struct {
	ID          uuid.UUID           `json:"id"`
	SKU         string              `json:"sku"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	PriceCents  int64               `json:"price_cents"`
	Stock       int                 `json:"stock"`
	Status      enums.ProductStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ProductList wraps the paginated catalog plus the next page cursor.
type ProductList struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/search the catalog.
type ListProductsInput struct {
	Query      string
	Pagination pagination.Params
}

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	SKU         string  `json:"sku" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Status      string  `json:"status,omitempty"`
}

// UpdateProductInput carries the optional fields accepted on update.
type UpdateProductInput struct {
	SKU         *string `json:"sku,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
}

// UpdateStockInput carries the replacement stock level.
type UpdateStockInput struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// UpdateStatusInput carries the replacement catalog status.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func toView(p *models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
