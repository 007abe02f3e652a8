package catalog

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

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named memory DB keeps pooled connections on the same data while
	// isolating tests from each other.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  category TEXT NOT NULL DEFAULT 'electronics',
  brand TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  images TEXT,
  tags TEXT,
  ratings TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(products).Error)
	return conn
}

func newCatalogTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"Wireless Headphones", "wireless-headphones"},
		{"  USB-C   Cable (2m)!  ", "usb-c-cable-2m"},
		{"---", ""},
		{"Ärgernis 100%", "rgernis-100"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestServiceCreateProductSuffixesDuplicateSlug(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	input := CreateProductInput{
		Name:        "Gaming Mouse",
		Description: "eight buttons and a scroll wheel",
		Price:       decimal.RequireFromString("49.99"),
		Category:    enums.ProductCategoryElectronics,
		Stock:       10,
	}

	first, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Slug != "gaming-mouse" {
		t.Fatalf("unexpected slug: %s", first.Slug)
	}

	second, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Slug != "gaming-mouse-2" {
		t.Fatalf("expected suffixed slug, got %s", second.Slug)
	}

	third, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Slug != "gaming-mouse-3" {
		t.Fatalf("expected suffixed slug, got %s", third.Slug)
	}
}

func TestServiceCreateProductRejectsUnsluggableName(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "!!!",
		Description: "name has no usable characters",
		Price:       decimal.NewFromInt(10),
		Category:    enums.ProductCategoryOther,
	})
	if err == nil {
		t.Fatal("expected error for unsluggable name")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceDeleteProductDiscontinues(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "Desk Lamp",
		Description: "soon to be discontinued",
		Price:       decimal.NewFromInt(30),
		Category:    enums.ProductCategoryHomeGarden,
		Stock:       5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The row survives so order snapshots keep a target.
	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", created.ID).Error)
	if product.Status != enums.ProductStatusDiscontinued {
		t.Fatalf("expected discontinued status, got %s", product.Status)
	}

	if err := svc.DeleteProduct(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected not found for unknown product")
	}
}

func TestServiceListProductsHidesInactiveFromPublic(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	active, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "Visible Widget",
		Description: "shows up in the public listing",
		Price:       decimal.NewFromInt(20),
		Category:    enums.ProductCategoryOther,
		Stock:       3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hidden, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "Hidden Widget",
		Description: "discontinued and gone from the shop",
		Price:       decimal.NewFromInt(25),
		Category:    enums.ProductCategoryOther,
		Stock:       3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteProduct(context.Background(), hidden.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	public, err := svc.ListProducts(context.Background(), ListProductsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(public.Products) != 1 || public.Products[0].ID != active.ID {
		t.Fatalf("expected only the active product, got %+v", public.Products)
	}

	admin, err := svc.ListProducts(context.Background(), ListProductsInput{IncludeInactive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(admin.Products) != 2 {
		t.Fatalf("expected both products for admin reads, got %d", len(admin.Products))
	}
}

func TestServiceListProductsValidatesPriceRange(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(50)
	_, err := svc.ListProducts(context.Background(), ListProductsInput{MinPrice: &min, MaxPrice: &max})
	if err == nil {
		t.Fatal("expected error for inverted price range")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceUpdateProductReslugsOnRename(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogTestService(t, conn)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "Old Name",
		Description: "about to be renamed",
		Price:       decimal.NewFromInt(15),
		Category:    enums.ProductCategoryOther,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Brand New Name"
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != "brand-new-name" {
		t.Fatalf("expected new slug, got %s", updated.Slug)
	}
	if updated.Name != newName {
		t.Fatalf("expected new name, got %s", updated.Name)
	}
}
