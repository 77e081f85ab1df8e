package policy

import (
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

// ProductScope restricts catalog queries for non-admin actors to publicly
// visible statuses.
func ProductScope(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return tx
		}
		return tx.Where("status IN ?", []enums.ProductStatus{
			enums.ProductStatusActive,
			enums.ProductStatusPreorder,
		})
	}
}

// OrderScope restricts order queries to the actor's own rows. Guests see
// nothing.
func OrderScope(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return tx
		}
		if actor.ID == nil {
			return tx.Where("1 = 0")
		}
		return tx.Where("user_id = ?", *actor.ID)
	}
}

// OrderItemScope restricts line item queries through the parent order's
// ownership.
func OrderItemScope(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return tx
		}
		if actor.ID == nil {
			return tx.Where("1 = 0")
		}
		return tx.Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ?", *actor.ID)
	}
}

// UserScope restricts account listings for non-admin actors to customer rows.
func UserScope(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return tx
		}
		return tx.Where("role = ?", enums.RoleCustomer)
	}
}
