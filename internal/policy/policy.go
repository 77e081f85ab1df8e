// Package policy centralizes every authorization rule in the platform.
// Services load records through the package's relation scopes first, then ask
// the rule tables here whether the actor may perform the requested action.
// Records outside an actor's scope are never revealed as forbidden; they
// surface as not found upstream.
package policy

import (
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

// Action names a policy-checked operation.
type Action string

const (
	ActionIndex        Action = "index"
	ActionShow         Action = "show"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDestroy      Action = "destroy"
	ActionUpdateStock  Action = "update_stock"
	ActionUpdateStatus Action = "update_status"
)

// verb maps an action to the word used in denial messages.
func (a Action) verb() string {
	switch a {
	case ActionIndex, ActionShow:
		return "view"
	case ActionCreate:
		return "create"
	case ActionDestroy:
		return "delete"
	default:
		return "update"
	}
}

// Decision is the outcome of a rule table lookup.
type Decision struct {
	Allowed  bool
	Resource string
	Action   Action
}

func allow(resource string, action Action) Decision {
	return Decision{Allowed: true, Resource: resource, Action: action}
}

func deny(resource string, action Action) Decision {
	return Decision{Allowed: false, Resource: resource, Action: action}
}

// Err returns nil when the decision allows the action, otherwise a forbidden error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden,
		"you are not allowed to "+d.Action.verb()+" this "+d.Resource)
}

// Product evaluates catalog rules. Reads are open to everyone, including
// guests; every write is admin-only.
func Product(actor Actor, action Action) Decision {
	const resource = "product"
	switch action {
	case ActionIndex, ActionShow:
		return allow(resource, action)
	case ActionCreate, ActionUpdate, ActionDestroy, ActionUpdateStock, ActionUpdateStatus:
		if actor.IsAdmin() {
			return allow(resource, action)
		}
		return deny(resource, action)
	default:
		return deny(resource, action)
	}
}

// Order evaluates order lifecycle rules against the parent record.
//
// Creation is customer-owner-only: admins may not open orders at all, not
// even for themselves. Deletion additionally requires the order to still
// be pending, which binds admins too.
func Order(actor Actor, order *models.Order, action Action) Decision {
	const resource = "order"
	if order == nil {
		return deny(resource, action)
	}

	adminOrOwner := actor.IsAdmin() || actor.Owns(order.UserID)

	switch action {
	case ActionIndex, ActionShow:
		if adminOrOwner {
			return allow(resource, action)
		}
	case ActionCreate:
		if actor.IsCustomer() && actor.Owns(order.UserID) {
			return allow(resource, action)
		}
	case ActionUpdate, ActionUpdateStatus:
		if adminOrOwner {
			return allow(resource, action)
		}
	case ActionDestroy:
		if adminOrOwner && order.Status.IsPending() {
			return allow(resource, action)
		}
	}
	return deny(resource, action)
}

// OrderItem evaluates line item rules. Items inherit visibility from the
// parent order, and every mutation requires the parent to be pending, with
// no admin bypass.
func OrderItem(actor Actor, order *models.Order, action Action) Decision {
	const resource = "order item"
	if order == nil {
		return deny(resource, action)
	}

	adminOrOwner := actor.IsAdmin() || actor.Owns(order.UserID)
	if !adminOrOwner {
		return deny(resource, action)
	}

	switch action {
	case ActionIndex, ActionShow:
		return allow(resource, action)
	case ActionCreate, ActionUpdate, ActionDestroy:
		if order.Status.IsPending() {
			return allow(resource, action)
		}
	}
	return deny(resource, action)
}

// User evaluates account management rules. Listing, creating, and deleting
// accounts is admin-only; a user may view and update themselves.
func User(actor Actor, target *models.User, action Action) Decision {
	const resource = "user"

	switch action {
	case ActionIndex, ActionCreate, ActionDestroy:
		if actor.IsAdmin() {
			return allow(resource, action)
		}
	case ActionShow, ActionUpdate:
		if target == nil {
			return deny(resource, action)
		}
		if actor.IsAdmin() || actor.Owns(target.ID) {
			return allow(resource, action)
		}
	}
	return deny(resource, action)
}
