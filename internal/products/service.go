package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/db"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

// Service defines catalog operations.
type Service interface {
	List(ctx context.Context, actor policy.Actor, input ListProductsInput) (*ProductList, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ProductView, error)
	Create(ctx context.Context, actor policy.Actor, input CreateProductInput) (*ProductView, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
	UpdateStock(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateStockInput) (*ProductView, error)
	UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateStatusInput) (*ProductView, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor policy.Actor, input ListProductsInput) (*ProductList, error) {
	if err := policy.Product(actor, policy.ActionIndex).Err(); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ProductView, error) {
	if err := policy.Product(actor, policy.ActionShow).Err(); err != nil {
		return nil, err
	}
	product, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	view := toView(product)
	return &view, nil
}

func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateProductInput) (*ProductView, error) {
	if err := policy.Product(actor, policy.ActionCreate).Err(); err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	status := enums.ProductStatusActive
	if input.Status != "" {
		parsed, err := enums.ParseProductStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	// Pre-check the SKU for a friendly conflict; the unique index still
	// backstops races.
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
	}

	product := &models.Product{
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Status:      status,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if isSKUConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	view := toView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	if err := policy.Product(actor, policy.ActionUpdate).Err(); err != nil {
		return nil, err
	}

	product, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*input.SKU))
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku must not be blank")
		}
		updates["sku"] = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_cents"] = *input.PriceCents
	}

	if len(updates) == 0 {
		view := toView(product)
		return &view, nil
	}

	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		if isSKUConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.Get(ctx, actor, id)
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := policy.Product(actor, policy.ActionDestroy).Err(); err != nil {
		return err
	}
	product, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) UpdateStock(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateStockInput) (*ProductView, error) {
	if err := policy.Product(actor, policy.ActionUpdateStock).Err(); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product.ID, map[string]any{"stock": input.Stock}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}
	return s.Get(ctx, actor, id)
}

func (s *service) UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateStatusInput) (*ProductView, error) {
	if err := policy.Product(actor, policy.ActionUpdateStatus).Err(); err != nil {
		return nil, err
	}
	status, err := enums.ParseProductStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	product, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product.ID, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
	}
	return s.Get(ctx, actor, id)
}

func isSKUConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "idx_products_sku")
}

func (s *service) find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
