package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db/models"
)

// Repository persists cart aggregates.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUser loads the user's cart with its lines, or nil when absent.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		First(&cart, "user_id = ?", userID).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts an empty cart for the user.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{
		ID:         uuid.New(),
		UserID:     userID,
		TotalItems: 0,
		TotalPrice: decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// ReplaceItems swaps the cart's lines for the provided set and writes the
// totals alongside.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem, totalItems int, totalPrice decimal.Decimal) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		for i := range items {
			items[i].ID = uuid.New()
			items[i].CartID = cartID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"total_items": totalItems,
			"total_price": totalPrice,
		}).
		Error
}

// Clear empties the cart and zeroes its totals.
func (r *Repository) Clear(ctx context.Context, cartID uuid.UUID) error {
	return r.ReplaceItems(ctx, cartID, nil, 0, decimal.Zero)
}
