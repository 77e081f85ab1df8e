package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	pkgerrors "github.com/jcastellanos/marketcart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductCatalog exposes the scoped product lookup used to capture unit
// prices. Satisfied by the products repository.
type ProductCatalog interface {
	Find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Product, error)
}

// Service defines order lifecycle operations.
type Service interface {
	List(ctx context.Context, actor policy.Actor, input ListOrdersInput) (*OrderList, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*OrderView, error)
	Create(ctx context.Context, actor policy.Actor, input CreateOrderInput) (*OrderView, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
	UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateOrderStatusInput) (*OrderView, error)

	AddItem(ctx context.Context, actor policy.Actor, orderID uuid.UUID, input AddItemInput) (*OrderView, error)
	UpdateItem(ctx context.Context, actor policy.Actor, orderID, itemID uuid.UUID, input UpdateItemInput) (*OrderView, error)
	RemoveItem(ctx context.Context, actor policy.Actor, orderID, itemID uuid.UUID) (*OrderView, error)
}

type service struct {
	repo    Repository
	catalog ProductCatalog
	tx      txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, catalog ProductCatalog, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: catalog, tx: tx}, nil
}

func (s *service) List(ctx context.Context, actor policy.Actor, input ListOrdersInput) (*OrderList, error) {
	list, err := s.repo.List(ctx, actor, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*OrderView, error) {
	order, err := s.findScoped(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Order(actor, order, policy.ActionShow).Err(); err != nil {
		return nil, err
	}
	view := toOrderView(order)
	return &view, nil
}

func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateOrderInput) (*OrderView, error) {
	if actor.IsGuest() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	ownerID := *actor.ID
	if input.UserID != nil {
		ownerID = *input.UserID
	}

	order := &models.Order{
		UserID: ownerID,
		Status: enums.OrderStatusPending,
	}
	if err := policy.Order(actor, order, policy.ActionCreate).Err(); err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}

	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		created, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		var total int64
		for _, line := range input.Items {
			product, err := s.findProduct(ctx, actor, line.ProductID)
			if err != nil {
				return err
			}
			item := &models.OrderItem{
				OrderID:    created.ID,
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				PriceCents: product.PriceCents,
			}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
			}
			total += int64(line.Quantity) * product.PriceCents
		}

		if total != 0 {
			if err := repo.UpdateTotal(ctx, created.ID, total); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
			}
		}

		reloaded, err := s.findScoped(ctx, repo, actor, created.ID)
		if err != nil {
			return err
		}
		view = toOrderView(reloaded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findScoped(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if err := policy.Order(actor, order, policy.ActionDestroy).Err(); err != nil {
			return err
		}
		if err := repo.Delete(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateOrderStatusInput) (*OrderView, error) {
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	var view OrderView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findScoped(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if err := policy.Order(actor, order, policy.ActionUpdateStatus).Err(); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		view = toOrderView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) AddItem(ctx context.Context, actor policy.Actor, orderID uuid.UUID, input AddItemInput) (*OrderView, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findScoped(ctx, repo, actor, orderID)
		if err != nil {
			return err
		}
		if err := policy.OrderItem(actor, order, policy.ActionCreate).Err(); err != nil {
			return err
		}

		product, err := s.findProduct(ctx, actor, input.ProductID)
		if err != nil {
			return err
		}

		item := &models.OrderItem{
			OrderID:    order.ID,
			ProductID:  product.ID,
			Quantity:   input.Quantity,
			PriceCents: product.PriceCents,
		}
		if _, err := repo.CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
		}

		return s.recompute(ctx, repo, actor, order.ID, &view)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) UpdateItem(ctx context.Context, actor policy.Actor, orderID, itemID uuid.UUID, input UpdateItemInput) (*OrderView, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findScoped(ctx, repo, actor, orderID)
		if err != nil {
			return err
		}
		if err := policy.OrderItem(actor, order, policy.ActionUpdate).Err(); err != nil {
			return err
		}

		item, err := s.findItem(ctx, repo, order.ID, itemID)
		if err != nil {
			return err
		}

		// Every item write re-copies the product's current price, so the
		// snapshot reflects the moment of the last create or update.
		product, err := s.findProduct(ctx, actor, item.ProductID)
		if err != nil {
			return err
		}
		updates := map[string]any{
			"quantity":    input.Quantity,
			"price_cents": product.PriceCents,
		}
		if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
		}

		return s.recompute(ctx, repo, actor, order.ID, &view)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) RemoveItem(ctx context.Context, actor policy.Actor, orderID, itemID uuid.UUID) (*OrderView, error) {
	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findScoped(ctx, repo, actor, orderID)
		if err != nil {
			return err
		}
		if err := policy.OrderItem(actor, order, policy.ActionDestroy).Err(); err != nil {
			return err
		}

		item, err := s.findItem(ctx, repo, order.ID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}

		return s.recompute(ctx, repo, actor, order.ID, &view)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// recompute re-derives the order total from the surviving items and reloads
// the order for the response.
func (s *service) recompute(ctx context.Context, repo Repository, actor policy.Actor, orderID uuid.UUID, out *OrderView) error {
	items, err := repo.ListItems(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order items")
	}

	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.PriceCents
	}
	if err := repo.UpdateTotal(ctx, orderID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
	}

	order, err := s.findScoped(ctx, repo, actor, orderID)
	if err != nil {
		return err
	}
	*out = toOrderView(order)
	return nil
}

func (s *service) findScoped(ctx context.Context, repo Repository, actor policy.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := repo.Find(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) findItem(ctx context.Context, repo Repository, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := repo.FindItem(ctx, orderID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
	}
	return item, nil
}

func (s *service) findProduct(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.catalog.Find(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
