package policy

import (
	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/enums"
)

// Actor is the identity a request acts as. A nil ID marks an unauthenticated
// guest; guests never own anything.
type Actor struct {
	ID   *uuid.UUID
	Role enums.Role
}

// Guest returns the unauthenticated actor.
func Guest() Actor {
	return Actor{Role: enums.RoleGuest}
}

// Customer returns an actor for a signed-in customer.
func Customer(id uuid.UUID) Actor {
	return Actor{ID: &id, Role: enums.RoleCustomer}
}

// Admin returns an actor for a signed-in admin.
func Admin(id uuid.UUID) Actor {
	return Actor{ID: &id, Role: enums.RoleAdmin}
}

// IsGuest reports whether the actor is unauthenticated.
func (a Actor) IsGuest() bool {
	return a.ID == nil || a.Role == enums.RoleGuest
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return !a.IsGuest() && a.Role == enums.RoleAdmin
}

// IsCustomer reports whether the actor is a signed-in customer.
func (a Actor) IsCustomer() bool {
	return !a.IsGuest() && a.Role == enums.RoleCustomer
}

// Owns reports whether the actor is the user identified by userID.
func (a Actor) Owns(userID uuid.UUID) bool {
	if a.ID == nil {
		return false
	}
	return *a.ID == userID
}
