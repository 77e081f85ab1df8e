package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jcastellanos/marketcart-backend/internal/policy"
	"github.com/jcastellanos/marketcart-backend/pkg/db/models"
	"github.com/jcastellanos/marketcart-backend/pkg/enums"
	"github.com/jcastellanos/marketcart-backend/pkg/pagination"
)

func setupOrdersDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(orders).Error)
	require.NoError(t, gdb.Exec(orderItems).Error)

	t.Cleanup(func() {
		gdb.Exec("DELETE FROM order_items")
		gdb.Exec("DELETE FROM orders")
	})
	return gdb
}

func insertOrder(t *testing.T, gdb *gorm.DB, userID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, gdb.Create(order).Error)
	return order
}

func insertItem(t *testing.T, gdb *gorm.DB, orderID uuid.UUID, quantity int, priceCents int64) *models.OrderItem {
	t.Helper()
	item := &models.OrderItem{
		ID:         uuid.New(),
		OrderID:    orderID,
		ProductID:  uuid.New(),
		Quantity:   quantity,
		PriceCents: priceCents,
	}
	require.NoError(t, gdb.Create(item).Error)
	return item
}

func TestRepositoryFindScopesToOwner(t *testing.T) {
	gdb := setupOrdersDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	ownerID := uuid.New()
	order := insertOrder(t, gdb, ownerID, enums.OrderStatusPending, time.Now().UTC())
	insertItem(t, gdb, order.ID, 2, 1500)

	found, err := repo.Find(ctx, policy.Customer(ownerID), order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	require.Equal(t, int64(1500), found.Items[0].PriceCents)

	found, err = repo.Find(ctx, policy.Admin(uuid.New()), order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, found.ID)

	_, err = repo.Find(ctx, policy.Customer(uuid.New()), order.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.Find(ctx, policy.Guest(), order.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	gdb := setupOrdersDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	ownerID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)
	insertOrder(t, gdb, ownerID, enums.OrderStatusPending, base.Add(-3*time.Minute))
	insertOrder(t, gdb, ownerID, enums.OrderStatusPaid, base.Add(-2*time.Minute))
	insertOrder(t, gdb, uuid.New(), enums.OrderStatusPending, base.Add(-1*time.Minute))

	own, err := repo.List(ctx, policy.Customer(ownerID), ListOrdersInput{})
	require.NoError(t, err)
	require.Len(t, own.Orders, 2)

	paid := enums.OrderStatusPaid
	filtered, err := repo.List(ctx, policy.Customer(ownerID), ListOrdersInput{Status: &paid})
	require.NoError(t, err)
	require.Len(t, filtered.Orders, 1)
	require.Equal(t, enums.OrderStatusPaid, filtered.Orders[0].Status)

	firstPage, err := repo.List(ctx, policy.Admin(uuid.New()), ListOrdersInput{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, firstPage.Orders, 2)
	require.NotEmpty(t, firstPage.NextCursor)

	secondPage, err := repo.List(ctx, policy.Admin(uuid.New()), ListOrdersInput{
		Pagination: pagination.Params{Limit: 2, Cursor: firstPage.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, secondPage.Orders, 1)
	require.Empty(t, secondPage.NextCursor)
}

func TestRepositoryItemLifecycle(t *testing.T) {
	gdb := setupOrdersDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	ownerID := uuid.New()
	order := insertOrder(t, gdb, ownerID, enums.OrderStatusPending, time.Now().UTC())

	item, err := repo.CreateItem(ctx, &models.OrderItem{
		ID:         uuid.New(),
		OrderID:    order.ID,
		ProductID:  uuid.New(),
		Quantity:   1,
		PriceCents: 2500,
	})
	require.NoError(t, err)

	found, err := repo.FindItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2500), found.PriceCents)

	// Item lookups are keyed by parent order; a wrong parent misses.
	_, err = repo.FindItem(ctx, uuid.New(), item.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.UpdateItem(ctx, item.ID, map[string]any{"quantity": 4}))
	found, err = repo.FindItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	require.Equal(t, 4, found.Quantity)
	require.Equal(t, int64(2500), found.PriceCents)

	require.NoError(t, repo.UpdateItem(ctx, item.ID, map[string]any{"quantity": 2, "price_cents": int64(4000)}))
	found, err = repo.FindItem(ctx, order.ID, item.ID)
	require.NoError(t, err)
	require.Equal(t, 2, found.Quantity)
	require.Equal(t, int64(4000), found.PriceCents)

	items, err := repo.ListItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	items, err = repo.ListItems(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRepositoryUpdateTotalAndStatus(t *testing.T) {
	gdb := setupOrdersDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	ownerID := uuid.New()
	order := insertOrder(t, gdb, ownerID, enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateTotal(ctx, order.ID, 9900))
	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped))

	found, err := repo.Find(ctx, policy.Customer(ownerID), order.ID)
	require.NoError(t, err)
	require.Equal(t, int64(9900), found.TotalPriceCents)
	require.Equal(t, enums.OrderStatusShipped, found.Status)
}
