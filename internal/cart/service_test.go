package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_items INTEGER NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  added_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, conn.Exec(carts).Error)
	require.NoError(t, conn.Exec(cartItems).Error)
	return conn
}

type stubProductReader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductReader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductReader) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			rows = append(rows, *product)
		}
	}
	return rows, nil
}

func newCartTestService(t *testing.T, conn *gorm.DB, products map[uuid.UUID]*models.Product) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), &stubProductReader{products: products}, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func testProduct(price string, stock int) *models.Product {
	return &models.Product{
		ID:     uuid.New(),
		Name:   "Test Product",
		Slug:   "test-product-" + uuid.NewString(),
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Status: enums.ProductStatusActive,
	}
}

func TestServiceAddItemCreatesCartAndTotals(t *testing.T) {
	conn := setupCartTestDB(t)
	product := testProduct("99.99", 5)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{product.ID: product})

	userID := uuid.New()
	dto, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.TotalItems != 2 {
		t.Fatalf("expected 2 total items, got %d", dto.TotalItems)
	}
	if want := 199.98; dto.TotalPrice != want {
		t.Fatalf("expected total %.2f, got %.2f", want, dto.TotalPrice)
	}

	// Second add merges into the same line.
	dto, err = svc.AddItem(context.Background(), userID, product.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 3 {
		t.Fatalf("expected one merged line with qty 3, got %+v", dto.Items)
	}
}

func TestServiceAddItemInsufficientStock(t *testing.T) {
	conn := setupCartTestDB(t)
	product := testProduct("10.00", 4)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{product.ID: product})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Merged quantity 6 exceeds the 4 in stock.
	_, err := svc.AddItem(context.Background(), userID, product.ID, 3)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{})

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceUpdateItemQuantityZeroRemoves(t *testing.T) {
	conn := setupCartTestDB(t)
	product := testProduct("25.00", 10)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{product.ID: product})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dto, err := svc.UpdateItemQuantity(context.Background(), userID, product.ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Items) != 0 || dto.TotalItems != 0 || dto.TotalPrice != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}

func TestServiceGetPrunesUnavailableLines(t *testing.T) {
	conn := setupCartTestDB(t)
	kept := testProduct("10.00", 5)
	dropped := testProduct("20.00", 5)
	products := map[uuid.UUID]*models.Product{kept.ID: kept, dropped.ID: dropped}
	svc := newCartTestService(t, conn, products)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, kept.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, dropped.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dropped.Stock = 0

	dto, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].ProductID != kept.ID {
		t.Fatalf("expected only the in-stock line, got %+v", dto.Items)
	}
	if dto.TotalItems != 1 {
		t.Fatalf("expected totals recomputed after prune, got %d", dto.TotalItems)
	}

	// The prune is persisted, not just rendered.
	var count int64
	require.NoError(t, conn.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&count).Error)
	if count != 1 {
		t.Fatalf("expected one persisted line, got %d", count)
	}
}

func TestServiceRemoveAbsentLineSucceeds(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{})

	dto, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}

func TestServiceClearEmptiesCart(t *testing.T) {
	conn := setupCartTestDB(t)
	product := testProduct("15.00", 10)
	svc := newCartTestService(t, conn, map[uuid.UUID]*models.Product{product.ID: product})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dto, err := svc.Clear(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Items) != 0 || dto.TotalItems != 0 {
		t.Fatalf("expected cleared cart, got %+v", dto)
	}

	reloaded, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reloaded.Items) != 0 {
		t.Fatalf("expected cart to stay empty, got %+v", reloaded.Items)
	}
}
