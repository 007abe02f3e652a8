package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/db/models"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
)

// Service exposes the per-user cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo     *Repository
	products productReader
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productReader, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		products: products,
		dbClient: dbClient,
		now:      time.Now,
	}, nil
}

// Get returns the user's cart, creating it on first read. Lines whose product
// is no longer purchasable or has no stock are dropped and the pruned state is
// persisted before returning.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	productsByID, err := s.resolveProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := productsByID[item.ProductID]
		if !ok || !product.Purchasable() || product.Stock <= 0 {
			continue
		}
		kept = append(kept, item)
	}

	if len(kept) != len(cart.Items) {
		totalItems, totalPrice := recomputeTotals(kept)
		if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).ReplaceItems(ctx, cart.ID, kept, totalItems, totalPrice)
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune cart")
		}
		cart.Items = kept
		cart.TotalItems = totalItems
		cart.TotalPrice = totalPrice
	}

	return NewCartDTO(cart, productsByID), nil
}

// AddItem puts quantity units of the product into the cart, merging into an
// existing line when present.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	product, err := s.loadPurchasableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := addLine(cart.Items, productID, quantity, product.Price, s.now())
	if err != nil {
		return nil, err
	}

	// Check the merged line quantity against live stock, not just the delta.
	for _, item := range items {
		if item.ProductID == productID && item.Quantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
		}
	}

	return s.persist(ctx, cart, items)
}

// UpdateItemQuantity sets the line quantity; zero or less removes the line.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity > 0 {
		product, err := s.loadPurchasableProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
		}
	}

	items, err := setLineQuantity(cart.Items, productID, quantity, s.now())
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, cart, items)
}

// RemoveItem drops the product's line. Removing an absent line succeeds.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, cart, removeLine(cart.Items, productID))
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, cart, nil)
}

func (s *service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart != nil {
		return cart, nil
	}
	created, err := s.repo.Create(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) loadPurchasableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Purchasable() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is not available")
	}
	return product, nil
}

func (s *service) persist(ctx context.Context, cart *models.Cart, items []models.CartItem) (*CartDTO, error) {
	totalItems, totalPrice := recomputeTotals(items)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceItems(ctx, cart.ID, items, totalItems, totalPrice)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	cart.Items = items
	cart.TotalItems = totalItems
	cart.TotalPrice = totalPrice

	productsByID, err := s.resolveProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(cart, productsByID), nil
}

func (s *service) resolveProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]*models.Product, error) {
	if len(items) == 0 {
		return map[uuid.UUID]*models.Product{}, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	return byID, nil
}
