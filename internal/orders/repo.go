package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/pagination"
)

// Repository persists orders, their item snapshots and status history.
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

// Create inserts the order together with its items and seeded history.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with items and history regardless of owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser loads an order only when it belongs to the user. A foreign
// order surfaces as gorm.ErrRecordNotFound so ownership never leaks.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one page of the user's orders, newest first, with the
// unpaginated total.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, status *enums.OrderStatus) ([]models.Order, int64, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatusFields writes the mutable status-track columns of the order.
func (r *Repository) UpdateStatusFields(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":          order.Status,
			"payment_status":  order.PaymentStatus,
			"payment_details": order.PaymentDetails,
			"actual_delivery": order.ActualDelivery,
			"tracking_number": order.TrackingNumber,
			"cancel_reason":   order.CancelReason,
		}).
		Error
}

// AppendHistory inserts one status history row.
func (r *Repository) AppendHistory(ctx context.Context, entry models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// UserStats aggregates a user's order counts and lifetime spend.
type UserStats struct {
	TotalOrders     int64   `gorm:"column:total_orders"`
	TotalSpent      float64 `gorm:"column:total_spent"`
	PendingOrders   int64   `gorm:"column:pending_orders"`
	DeliveredOrders int64   `gorm:"column:delivered_orders"`
	CancelledOrders int64   `gorm:"column:cancelled_orders"`
}

// GetUserStats computes the aggregate in one query.
func (r *Repository) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var stats UserStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(
			"COUNT(*) AS total_orders, "+
				"COALESCE(SUM(total), 0) AS total_spent, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS pending_orders, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS delivered_orders, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS cancelled_orders",
			enums.OrderStatusPending, enums.OrderStatusDelivered, enums.OrderStatusCancelled,
		).
		Where("user_id = ?", userID).
		Scan(&stats).
		Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
