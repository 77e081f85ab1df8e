package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	"github.com/jcastellanos/marketcart-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, actor policy.Actor, input ListOrdersInput) (*OrderList, error)
	Find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdateTotal(ctx context.Context, id uuid.UUID, totalCents int64) error

	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, actor policy.Actor, input ListOrdersInput) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Scopes(policy.OrderScope(actor))

	if input.Status != nil {
		qb = qb.Where("status = ?", *input.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var records []models.Order
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&records).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(records) > pageSize {
		records = records[:pageSize]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	views := make([]OrderView, 0, len(records))
	for i := range records {
		views = append(views, toOrderView(&records[i]))
	}
	return &OrderList{Orders: views, NextCursor: nextCursor}, nil
}

func (r *repository) Find(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Scopes(policy.OrderScope(actor)).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) UpdateTotal(ctx context.Context, id uuid.UUID, totalCents int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("total_price_cents", totalCents).Error
}

func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.OrderItem{}).Error
}
