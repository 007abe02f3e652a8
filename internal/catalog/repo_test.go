package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/pagination"
)

func pageOne() pagination.Params {
	return pagination.Params{Page: 1, Limit: 20}
}

func seedRepoTestProduct(t *testing.T, conn *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        "Stocked Product",
		Slug:        "stocked-product-" + uuid.NewString(),
		Description: "used to exercise stock adjustments",
		Price:       decimal.NewFromInt(10),
		Category:    enums.ProductCategoryOther,
		Stock:       stock,
		Status:      enums.ProductStatusActive,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryAdjustStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	product := seedRepoTestProduct(t, conn, 5)

	ok, err := repo.AdjustStock(context.Background(), product.ID, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	// 2 left; a further -3 would go negative and must be refused.
	ok, err = repo.AdjustStock(context.Background(), product.ID, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected decrement below zero to be refused")
	}

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2 after refused decrement, got %d", reloaded.Stock)
	}

	ok, err = repo.AdjustStock(context.Background(), product.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected restore to succeed")
	}
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	if reloaded.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", reloaded.Stock)
	}
}

func TestRepositoryAdjustStockUnknownProduct(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	ok, err := repo.AdjustStock(context.Background(), uuid.New(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no rows affected for unknown product")
	}
}

func TestRepositoryListProductsSearchAndSort(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	for _, seed := range []struct {
		name  string
		price int64
	}{
		{"Cheap Keyboard", 20},
		{"Pricey Keyboard", 90},
		{"Monitor", 150},
	} {
		product := &models.Product{
			ID:          uuid.New(),
			Name:        seed.name,
			Slug:        Slugify(seed.name) + "-" + uuid.NewString(),
			Description: "listing fixture",
			Price:       decimal.NewFromInt(seed.price),
			Category:    enums.ProductCategoryElectronics,
			Status:      enums.ProductStatusActive,
		}
		require.NoError(t, conn.Create(product).Error)
	}

	rows, total, err := repo.ListProducts(context.Background(), pageOne(), ListFilters{
		Search: "keyboard",
		Sort:   "price_desc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 keyboard rows, got %d (total %d)", len(rows), total)
	}
	if rows[0].Name != "Pricey Keyboard" {
		t.Fatalf("expected price_desc ordering, got %s first", rows[0].Name)
	}

	min := decimal.NewFromInt(100)
	rows, total, err = repo.ListProducts(context.Background(), pageOne(), ListFilters{MinPrice: &min})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || rows[0].Name != "Monitor" {
		t.Fatalf("expected only the monitor above 100, got %+v", rows)
	}
}
