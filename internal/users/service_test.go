package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

type fakeRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) visible(actor policy.Actor, user *models.User) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.IsGuest() {
		return false
	}
	return user.Role == enums.RoleCustomer
}

func (f *fakeRepo) List(ctx context.Context, actor policy.Actor, input ListUsersInput) (*UserList, error) {
	views := []UserView{}
	for _, u := range f.users {
		if f.visible(actor, u) {
			views = append(views, toView(u))
		}
	}
	return &UserList{Users: views}, nil
}

func (f *fakeRepo) Find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || !f.visible(actor, u) {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updates["email"]; ok {
		for otherID, other := range f.users {
			if otherID != id && other.Email == v.(string) {
				return gorm.ErrDuplicatedKey
			}
		}
		u.Email = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := updates["role"]; ok {
		u.Role = v.(enums.Role)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewService(repo, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seedUser(repo *fakeRepo, role enums.Role) *models.User {
	u := &models.User{
		ID:           uuid.New(),
		Name:         "Jordan",
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	repo.users[u.ID] = u
	return u
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestListIsAdminOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seedUser(repo, enums.RoleCustomer)
	seedUser(repo, enums.RoleAdmin)

	list, err := svc.List(ctx, policy.Admin(uuid.New()), ListUsersInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(list.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list.Users))
	}

	_, err = svc.List(ctx, policy.Customer(uuid.New()), ListUsersInput{})
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.List(ctx, policy.Guest(), ListUsersInput{})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetAdminOrSelf(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	target := seedUser(repo, enums.RoleCustomer)

	view, err := svc.Get(ctx, policy.Customer(target.ID), target.ID)
	if err != nil {
		t.Fatalf("self get: %v", err)
	}
	if view.Email != target.Email {
		t.Fatalf("expected email %s, got %s", target.Email, view.Email)
	}

	if _, err := svc.Get(ctx, policy.Admin(uuid.New()), target.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}

	// Another customer can see the record exists but may not read it.
	_, err = svc.Get(ctx, policy.Customer(uuid.New()), target.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	// Admin accounts are outside a customer's relation entirely.
	admin := seedUser(repo, enums.RoleAdmin)
	_, err = svc.Get(ctx, policy.Customer(uuid.New()), admin.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, policy.Customer(uuid.New()), CreateUserInput{
		Name: "A", Email: "a@example.com", Password: "strongpass",
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	view, err := svc.Create(ctx, policy.Admin(uuid.New()), CreateUserInput{
		Name:     "Casey",
		Email:    "  Casey@Example.COM ",
		Password: "strongpass",
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if view.Email != "casey@example.com" {
		t.Fatalf("expected normalized email, got %s", view.Email)
	}
	if view.Role != enums.RoleCustomer {
		t.Fatalf("expected default role customer, got %s", view.Role)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := policy.Admin(uuid.New())

	tests := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing name", CreateUserInput{Email: "a@example.com", Password: "strongpass"}},
		{"missing email", CreateUserInput{Name: "A", Password: "strongpass"}},
		{"short password", CreateUserInput{Name: "A", Email: "a@example.com", Password: "short"}},
		{"guest role", CreateUserInput{Name: "A", Email: "a@example.com", Password: "strongpass", Role: "guest"}},
		{"name with digits", CreateUserInput{Name: "R2-D2", Email: "a@example.com", Password: "strongpass"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin, tc.input)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := policy.Admin(uuid.New())

	input := CreateUserInput{Name: "A", Email: "dup@example.com", Password: "strongpass"}
	if _, err := svc.Create(ctx, admin, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, admin, input)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateSelfCannotChangeRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	target := seedUser(repo, enums.RoleCustomer)

	name := "New Name"
	view, err := svc.Update(ctx, policy.Customer(target.ID), target.ID, UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if view.Name != "New Name" {
		t.Fatalf("expected updated name, got %s", view.Name)
	}

	role := "admin"
	_, err = svc.Update(ctx, policy.Customer(target.ID), target.ID, UpdateUserInput{Role: &role})
	assertCode(t, err, pkgerrors.CodeForbidden)

	view, err = svc.Update(ctx, policy.Admin(uuid.New()), target.ID, UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("admin role update: %v", err)
	}
	if view.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", view.Role)
	}
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	target := seedUser(repo, enums.RoleCustomer)

	err := svc.Delete(ctx, policy.Customer(target.ID), target.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.Delete(ctx, policy.Admin(uuid.New()), target.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, ok := repo.users[target.ID]; ok {
		t.Fatal("expected user to be removed")
	}
}
