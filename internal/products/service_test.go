package products

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

type fakeRepo struct {
	products map[uuid.UUID]*models.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) List(ctx context.Context, actor policy.Actor, input ListProductsInput) (*ProductList, error) {
	views := []ProductView{}
	for _, p := range f.products {
		if !actor.IsAdmin() && !p.Status.IsPubliclyVisible() {
			continue
		}
		if q := strings.ToLower(strings.TrimSpace(input.Query)); q != "" {
			if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
				continue
			}
		}
		views = append(views, toView(p))
	}
	return &ProductList{Products: views}, nil
}

func (f *fakeRepo) Find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !actor.IsAdmin() && !p.Status.IsPubliclyVisible() {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	for _, p := range f.products {
		if p.SKU == product.SKU {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["sku"]; ok {
		p.SKU = v.(string)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		desc := v.(string)
		p.Description = &desc
	}
	if v, ok := updates["price_cents"]; ok {
		p.PriceCents = v.(int64)
	}
	if v, ok := updates["stock"]; ok {
		p.Stock = v.(int)
	}
	if v, ok := updates["status"]; ok {
		p.Status = v.(enums.ProductStatus)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seed(repo *fakeRepo, sku string, status enums.ProductStatus, priceCents int64) *models.Product {
	p := &models.Product{
		ID:         uuid.New(),
		SKU:        sku,
		Name:       "widget " + sku,
		PriceCents: priceCents,
		Stock:      10,
		Status:     status,
	}
	repo.products[p.ID] = p
	return p
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

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateProductInput{SKU: "abc-1", Name: "Widget", PriceCents: 1000, Stock: 3}

	_, err := svc.Create(ctx, policy.Guest(), input)
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Create(ctx, policy.Customer(uuid.New()), input)
	assertCode(t, err, pkgerrors.CodeForbidden)

	view, err := svc.Create(ctx, policy.Admin(uuid.New()), input)
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if view.SKU != "ABC-1" {
		t.Fatalf("expected sku to be uppercased, got %q", view.SKU)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := policy.Admin(uuid.New())

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing sku", CreateProductInput{Name: "x", PriceCents: 1}},
		{"missing name", CreateProductInput{SKU: "a", PriceCents: 1}},
		{"negative price", CreateProductInput{SKU: "a", Name: "x", PriceCents: -1}},
		{"negative stock", CreateProductInput{SKU: "a", Name: "x", PriceCents: 1, Stock: -1}},
		{"bad status", CreateProductInput{SKU: "a", Name: "x", PriceCents: 1, Status: "bogus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin, tc.input)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateDuplicateSKUConflicts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	admin := policy.Admin(uuid.New())

	seed(repo, "DUP-1", enums.ProductStatusActive, 500)

	_, err := svc.Create(ctx, admin, CreateProductInput{SKU: "dup-1", Name: "Widget", PriceCents: 500})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestGetHidesInvisibleProductsAsNotFound(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	hidden := seed(repo, "HID-1", enums.ProductStatusInactive, 500)
	visible := seed(repo, "VIS-1", enums.ProductStatusActive, 500)

	_, err := svc.Get(ctx, policy.Guest(), hidden.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Get(ctx, policy.Customer(uuid.New()), hidden.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	if _, err := svc.Get(ctx, policy.Admin(uuid.New()), hidden.ID); err != nil {
		t.Fatalf("admin should see hidden product: %v", err)
	}
	if _, err := svc.Get(ctx, policy.Guest(), visible.ID); err != nil {
		t.Fatalf("guest should see active product: %v", err)
	}
}

func TestListScopesByRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seed(repo, "A-1", enums.ProductStatusActive, 100)
	seed(repo, "A-2", enums.ProductStatusPreorder, 100)
	seed(repo, "A-3", enums.ProductStatusDiscontinued, 100)

	guestList, err := svc.List(ctx, policy.Guest(), ListProductsInput{})
	if err != nil {
		t.Fatalf("guest list: %v", err)
	}
	if len(guestList.Products) != 2 {
		t.Fatalf("expected guest to see 2 products, got %d", len(guestList.Products))
	}

	adminList, err := svc.List(ctx, policy.Admin(uuid.New()), ListProductsInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminList.Products) != 3 {
		t.Fatalf("expected admin to see 3 products, got %d", len(adminList.Products))
	}
}

func TestUpdateStockAndStatusAdminOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	admin := policy.Admin(uuid.New())

	product := seed(repo, "ST-1", enums.ProductStatusActive, 100)

	_, err := svc.UpdateStock(ctx, policy.Customer(uuid.New()), product.ID, UpdateStockInput{Stock: 5})
	assertCode(t, err, pkgerrors.CodeForbidden)

	view, err := svc.UpdateStock(ctx, admin, product.ID, UpdateStockInput{Stock: 5})
	if err != nil {
		t.Fatalf("admin update stock: %v", err)
	}
	if view.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", view.Stock)
	}

	_, err = svc.UpdateStatus(ctx, admin, product.ID, UpdateStatusInput{Status: "bogus"})
	assertCode(t, err, pkgerrors.CodeValidation)

	view, err = svc.UpdateStatus(ctx, admin, product.ID, UpdateStatusInput{Status: "discontinued"})
	if err != nil {
		t.Fatalf("admin update status: %v", err)
	}
	if view.Status != enums.ProductStatusDiscontinued {
		t.Fatalf("expected discontinued, got %s", view.Status)
	}
}

func TestDeleteAdminOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := seed(repo, "DEL-1", enums.ProductStatusActive, 100)

	err := svc.Delete(ctx, policy.Customer(uuid.New()), product.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.Delete(ctx, policy.Admin(uuid.New()), product.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, ok := repo.products[product.ID]; ok {
		t.Fatal("expected product to be removed")
	}
}
