package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/pagination"
)

// Repository persists product reviews.
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

// Create inserts a review. The unique index on (product_id, user_id) rejects
// a second review from the same user.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID loads a review by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Update saves the full review row.
func (r *Repository) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

// IncrementHelpful bumps the helpful vote counter and returns the new value.
func (r *Repository) IncrementHelpful(ctx context.Context, id uuid.UUID) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("helpful_votes", gorm.Expr("helpful_votes + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var votes int
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Pluck("helpful_votes", &votes).
		Error
	return votes, err
}

// ListByProduct returns one page of approved reviews for the product plus the
// unpaginated total.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params, rating *int, sort string) ([]models.Review, int64, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true)
	if rating != nil {
		qb = qb.Where("rating = ?", *rating)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Review
	err := qb.
		Order(reviewOrderClause(sort)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func reviewOrderClause(sort string) string {
	switch sort {
	case "rating":
		return "rating DESC, created_at DESC"
	case "helpful":
		return "helpful_votes DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// Aggregate computes the approved-review average and count for a product.
func (r *Repository) Aggregate(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row struct {
		Average float64 `gorm:"column:average"`
		Count   int     `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).
		Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, row.Count, nil
}

// HasDeliveredOrderWithProduct reports whether the user has a delivered order
// containing the product.
func (r *Repository) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, enums.OrderStatusDelivered, productID).
		Count(&count).
		Error
	return count > 0, err
}
