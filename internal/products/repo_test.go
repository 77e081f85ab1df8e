package products

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

func setupCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(schema).Error)

	t.Cleanup(func() {
		gdb.Exec("DELETE FROM products")
	})
	return gdb
}

func insertProduct(t *testing.T, gdb *gorm.DB, name, sku string, status enums.ProductStatus, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SKU:        sku,
		Name:       name,
		PriceCents: 1999,
		Stock:      10,
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func TestRepositoryListScopesByVisibility(t *testing.T) {
	gdb := setupCatalogDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	insertProduct(t, gdb, "Active Widget", "WID-1", enums.ProductStatusActive, base.Add(-3*time.Minute))
	insertProduct(t, gdb, "Preorder Widget", "WID-2", enums.ProductStatusPreorder, base.Add(-2*time.Minute))
	insertProduct(t, gdb, "Retired Widget", "WID-3", enums.ProductStatusDiscontinued, base.Add(-1*time.Minute))

	visible, err := repo.List(ctx, policy.Guest(), ListProductsInput{})
	require.NoError(t, err)
	require.Len(t, visible.Products, 2)

	all, err := repo.List(ctx, policy.Admin(uuid.New()), ListProductsInput{})
	require.NoError(t, err)
	require.Len(t, all.Products, 3)
}

func TestRepositoryListSearchesNameAndSKU(t *testing.T) {
	gdb := setupCatalogDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	insertProduct(t, gdb, "Walnut Desk", "DSK-100", enums.ProductStatusActive, base.Add(-2*time.Minute))
	insertProduct(t, gdb, "Oak Chair", "CHR-200", enums.ProductStatusActive, base.Add(-1*time.Minute))

	byName, err := repo.List(ctx, policy.Guest(), ListProductsInput{Query: "walnut"})
	require.NoError(t, err)
	require.Len(t, byName.Products, 1)
	require.Equal(t, "Walnut Desk", byName.Products[0].Name)

	bySKU, err := repo.List(ctx, policy.Guest(), ListProductsInput{Query: "chr-"})
	require.NoError(t, err)
	require.Len(t, bySKU.Products, 1)
	require.Equal(t, "CHR-200", bySKU.Products[0].SKU)
}

func TestRepositoryListPaginates(t *testing.T) {
	gdb := setupCatalogDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		insertProduct(t, gdb, "Widget", uuid.NewString()[:8], enums.ProductStatusActive, base.Add(-time.Duration(i)*time.Minute))
	}

	firstPage, err := repo.List(ctx, policy.Guest(), ListProductsInput{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, firstPage.Products, 2)
	require.NotEmpty(t, firstPage.NextCursor)

	secondPage, err := repo.List(ctx, policy.Guest(), ListProductsInput{
		Pagination: pagination.Params{Limit: 2, Cursor: firstPage.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, secondPage.Products, 1)
	require.Empty(t, secondPage.NextCursor)
}

func TestRepositoryFindHonorsScope(t *testing.T) {
	gdb := setupCatalogDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	hidden := insertProduct(t, gdb, "Retired Widget", "WID-9", enums.ProductStatusInactive, time.Now().UTC())

	_, err := repo.Find(ctx, policy.Guest(), hidden.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	found, err := repo.Find(ctx, policy.Admin(uuid.New()), hidden.ID)
	require.NoError(t, err)
	require.Equal(t, hidden.ID, found.ID)

	bySKU, err := repo.FindBySKU(ctx, "WID-9")
	require.NoError(t, err)
	require.Equal(t, hidden.ID, bySKU.ID)
}
