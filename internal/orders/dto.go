package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	"github.com/jcastellanos/marketcart-backend/pkg/pagination"
)

// OrderItemView is the line item representation returned by the API.
type OrderItemView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
	PriceCents     int64     `json:"price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OrderView is the order representation returned by the API.
type OrderView struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Status          enums.OrderStatus `json:"status"`
	TotalPriceCents int64             `json:"total_price_cents"`
	Items           []OrderItemView   `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ListOrdersInput captures list pagination plus an optional status filter.
type ListOrdersInput struct {
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

// OrderItemInput is a line requested at order creation time.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// CreateOrderInput carries the fields accepted when opening an order.
// UserID defaults to the acting user when omitted.
type CreateOrderInput struct {
	UserID *uuid.UUID       `json:"user_id,omitempty"`
	Items  []OrderItemInput `json:"items,omitempty"`
}

// UpdateOrderStatusInput carries the replacement lifecycle status.
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// AddItemInput carries the fields accepted when adding a line item.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// UpdateItemInput carries the fields accepted when changing a line item.
// The captured unit price never changes after creation.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

func toItemView(item *models.OrderItem) OrderItemView {
	return OrderItemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		PriceCents:     item.PriceCents,
		LineTotalCents: int64(item.Quantity) * item.PriceCents,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func toOrderView(order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, toItemView(&order.Items[i]))
	}
	return OrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalPriceCents: order.TotalPriceCents,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
