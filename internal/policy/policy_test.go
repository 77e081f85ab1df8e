package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

func TestProductRules(t *testing.T) {
	adminID := uuid.New()
	customerID := uuid.New()

	cases := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"guest can list", Guest(), ActionIndex, true},
		{"guest can show", Guest(), ActionShow, true},
		{"customer can show", Customer(customerID), ActionShow, true},
		{"guest cannot create", Guest(), ActionCreate, false},
		{"customer cannot create", Customer(customerID), ActionCreate, false},
		{"customer cannot update stock", Customer(customerID), ActionUpdateStock, false},
		{"customer cannot update status", Customer(customerID), ActionUpdateStatus, false},
		{"admin can create", Admin(adminID), ActionCreate, true},
		{"admin can update", Admin(adminID), ActionUpdate, true},
		{"admin can update stock", Admin(adminID), ActionUpdateStock, true},
		{"admin can destroy", Admin(adminID), ActionDestroy, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Product(tc.actor, tc.action)
			if got.Allowed != tc.want {
				t.Fatalf("Product(%s, %s) allowed=%v, want %v", tc.actor.Role, tc.action, got.Allowed, tc.want)
			}
		})
	}
}

func TestOrderRules(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	adminID := uuid.New()

	pending := &models.Order{UserID: ownerID, Status: enums.OrderStatusPending}
	paid := &models.Order{UserID: ownerID, Status: enums.OrderStatusPaid}

	cases := []struct {
		name   string
		actor  Actor
		order  *models.Order
		action Action
		want   bool
	}{
		{"owner can show", Customer(ownerID), pending, ActionShow, true},
		{"admin can show", Admin(adminID), pending, ActionShow, true},
		{"other customer cannot show", Customer(otherID), pending, ActionShow, false},
		{"guest cannot show", Guest(), pending, ActionShow, false},

		{"owner can create", Customer(ownerID), pending, ActionCreate, true},
		{"admin cannot create for another user", Admin(adminID), pending, ActionCreate, false},
		{"admin cannot create own order", Admin(adminID), &models.Order{UserID: adminID, Status: enums.OrderStatusPending}, ActionCreate, false},
		{"other customer cannot create", Customer(otherID), pending, ActionCreate, false},

		{"owner can update", Customer(ownerID), paid, ActionUpdate, true},
		{"owner can update status", Customer(ownerID), paid, ActionUpdateStatus, true},
		{"admin can update status", Admin(adminID), paid, ActionUpdateStatus, true},
		{"other customer cannot update", Customer(otherID), paid, ActionUpdate, false},

		{"owner can destroy pending", Customer(ownerID), pending, ActionDestroy, true},
		{"owner cannot destroy paid", Customer(ownerID), paid, ActionDestroy, false},
		{"admin cannot destroy paid", Admin(adminID), paid, ActionDestroy, false},
		{"admin can destroy pending", Admin(adminID), pending, ActionDestroy, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Order(tc.actor, tc.order, tc.action)
			if got.Allowed != tc.want {
				t.Fatalf("Order(%s, %s) allowed=%v, want %v", tc.actor.Role, tc.action, got.Allowed, tc.want)
			}
		})
	}
}

func TestOrderItemRules(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	adminID := uuid.New()

	pending := &models.Order{UserID: ownerID, Status: enums.OrderStatusPending}
	shipped := &models.Order{UserID: ownerID, Status: enums.OrderStatusShipped}

	cases := []struct {
		name   string
		actor  Actor
		order  *models.Order
		action Action
		want   bool
	}{
		{"owner can view items of shipped order", Customer(ownerID), shipped, ActionShow, true},
		{"admin can view items", Admin(adminID), shipped, ActionIndex, true},
		{"other customer cannot view items", Customer(otherID), pending, ActionShow, false},

		{"owner can add item to pending order", Customer(ownerID), pending, ActionCreate, true},
		{"owner cannot add item to shipped order", Customer(ownerID), shipped, ActionCreate, false},
		{"admin cannot add item to shipped order", Admin(adminID), shipped, ActionCreate, false},
		{"admin can modify item on pending order", Admin(adminID), pending, ActionUpdate, true},
		{"owner cannot remove item from shipped order", Customer(ownerID), shipped, ActionDestroy, false},
		{"owner can remove item from pending order", Customer(ownerID), pending, ActionDestroy, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OrderItem(tc.actor, tc.order, tc.action)
			if got.Allowed != tc.want {
				t.Fatalf("OrderItem(%s, %s) allowed=%v, want %v", tc.actor.Role, tc.action, got.Allowed, tc.want)
			}
		})
	}
}

func TestUserRules(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()
	adminID := uuid.New()

	self := &models.User{ID: selfID, Role: enums.RoleCustomer}
	other := &models.User{ID: otherID, Role: enums.RoleCustomer}

	cases := []struct {
		name   string
		actor  Actor
		target *models.User
		action Action
		want   bool
	}{
		{"admin can list", Admin(adminID), nil, ActionIndex, true},
		{"customer cannot list", Customer(selfID), nil, ActionIndex, false},
		{"admin can create", Admin(adminID), nil, ActionCreate, true},
		{"customer cannot create", Customer(selfID), nil, ActionCreate, false},
		{"admin can destroy", Admin(adminID), other, ActionDestroy, true},
		{"customer cannot destroy self", Customer(selfID), self, ActionDestroy, false},

		{"customer can show self", Customer(selfID), self, ActionShow, true},
		{"customer cannot show other", Customer(selfID), other, ActionShow, false},
		{"customer can update self", Customer(selfID), self, ActionUpdate, true},
		{"customer cannot update other", Customer(selfID), other, ActionUpdate, false},
		{"admin can update other", Admin(adminID), other, ActionUpdate, true},
		{"guest cannot show", Guest(), other, ActionShow, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := User(tc.actor, tc.target, tc.action)
			if got.Allowed != tc.want {
				t.Fatalf("User(%s, %s) allowed=%v, want %v", tc.actor.Role, tc.action, got.Allowed, tc.want)
			}
		})
	}
}

func TestDecisionErr(t *testing.T) {
	if err := allow("order", ActionShow).Err(); err != nil {
		t.Fatalf("expected nil error for allowed decision, got %v", err)
	}

	err := deny("order", ActionDestroy).Err()
	if err == nil {
		t.Fatal("expected error for denied decision")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %s", typed.Code())
	}
	if got, want := typed.Message(), "you are not allowed to delete this order"; got != want {
		t.Fatalf("unexpected message %q, want %q", got, want)
	}
}

func TestActorOwnership(t *testing.T) {
	id := uuid.New()
	if Guest().Owns(id) {
		t.Fatal("guest must not own anything")
	}
	if !Customer(id).Owns(id) {
		t.Fatal("customer should own their own id")
	}
	if Customer(uuid.New()).Owns(id) {
		t.Fatal("customer must not own a different id")
	}
}
