package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KrishMoond/eco/internal/cart"
	"github.com/KrishMoond/eco/internal/catalog"
	"github.com/KrishMoond/eco/pkg/config"
	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
	"github.com/KrishMoond/eco/pkg/logger"
	"github.com/KrishMoond/eco/pkg/pagination"
	"github.com/KrishMoond/eco/pkg/types"
)

// Service exposes checkout and the order lifecycle.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderListResult, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
}

// CheckoutInput is the validated checkout payload.
type CheckoutInput struct {
	ShippingAddress types.Address
	PaymentMethod   enums.PaymentMethod
	CouponCode      string
	Notes           *string
}

// ListOrdersInput filters the order history listing.
type ListOrdersInput struct {
	Pagination pagination.Params
	Status     *enums.OrderStatus
}

// UpdateStatusInput is the admin status mutation payload.
type UpdateStatusInput struct {
	Status         enums.OrderStatus
	Note           string
	TrackingNumber *string
}

type service struct {
	repo     *Repository
	cartRepo *cart.Repository
	catalog  *catalog.Repository
	dbClient *db.Client
	pricing  config.PricingConfig
	numbers  NumberSource
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs an orders service instance. The logger is optional.
func NewService(repo *Repository, cartRepo *cart.Repository, catalogRepo *catalog.Repository, dbClient *db.Client, pricing config.PricingConfig, numbers NumberSource, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("order number source required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		catalog:  catalogRepo,
		dbClient: dbClient,
		pricing:  pricing,
		numbers:  numbers,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Checkout converts the user's cart into a pending order. Order creation,
// stock decrements and the cart clear run in one transaction, written in that
// order. The conditional stock UPDATE is the authoritative guard; the line
// checks before it only produce friendlier errors.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	input.ShippingAddress = input.ShippingAddress.Normalize()

	userCart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if userCart == nil || len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	productsByID, err := s.resolveProducts(ctx, userCart.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range userCart.Items {
		product, ok := productsByID[item.ProductID]
		if !ok || !product.Purchasable() {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is no longer available").
				WithDetails(map[string]any{"productId": item.ProductID})
		}
		if product.Stock < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{"productId": item.ProductID, "available": product.Stock})
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	quote, err := ComputeQuote(subtotal, input.CouponCode, s.pricing)
	if err != nil {
		return nil, err
	}

	seq, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
	}

	now := s.now()
	order := s.buildOrder(userID, userCart.Items, productsByID, input, quote, seq, now)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		txCatalog := s.catalog.WithTx(tx)
		for _, item := range order.Items {
			ok, err := txCatalog.AdjustStock(ctx, item.ProductID, -item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"productId": item.ProductID})
			}
		}
		if err := s.cartRepo.WithTx(tx).Clear(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	return NewOrderDTO(order), nil
}

// GetOrder returns the user's order; orders of other users read as not found.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

// ListOrders pages through the user's order history, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderListResult, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	params := input.Pagination.Normalize()
	rows, total, err := s.repo.ListByUser(ctx, userID, params, input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewOrderDTO(&rows[i]))
	}
	return &OrderListResult{
		Orders:     dtos,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// GetStats aggregates the user's order counts and lifetime spend.
func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error) {
	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}
	return NewStatsDTO(stats), nil
}

// CancelOrder cancels a pending/confirmed/processing order, restoring the
// stock it had claimed. Shipped and delivered orders cannot be cancelled.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.Cancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order cannot be cancelled in status %s", order.Status))
	}

	if reason == "" {
		reason = "Cancelled by customer"
	}

	now := s.now()
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCatalog := s.catalog.WithTx(tx)
		for _, item := range order.Items {
			ok, err := txCatalog.AdjustStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore stock")
			}
			// The product row can be gone by cancellation time. The cancel
			// still goes through, but the skipped restore must be visible.
			if !ok && s.logg != nil {
				wctx := s.logg.WithFields(ctx, map[string]any{
					"order_number": order.OrderNumber,
					"product_id":   item.ProductID,
				})
				s.logg.Warn(wctx, "stock restore skipped, product row missing")
			}
		}

		entry := ApplyStatus(order, enums.OrderStatusCancelled, reason, now)
		order.CancelReason = &reason

		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateStatusFields(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}

	return NewOrderDTO(order), nil
}

// UpdateStatus applies an admin status change to any order.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	note := input.Note
	if note == "" {
		note = fmt.Sprintf("Status changed to %s", input.Status)
	}

	now := s.now()
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		entry := ApplyStatus(order, input.Status, note, now)
		if input.TrackingNumber != nil {
			order.TrackingNumber = input.TrackingNumber
		}

		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateStatusFields(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	return NewOrderDTO(order), nil
}

func (s *service) buildOrder(userID uuid.UUID, items []models.CartItem, productsByID map[uuid.UUID]*models.Product, input CheckoutInput, quote Quote, seq int64, now time.Time) *models.Order {
	orderID := uuid.New()

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product := productsByID[item.ProductID]
		orderItems = append(orderItems, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      product.Name,
			Image:     product.PrimaryImage(),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	order := &models.Order{
		ID:              orderID,
		OrderNumber:     FormatOrderNumber(now, seq),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   enums.PaymentStatusPending,
		Status:          enums.OrderStatusPending,
		StatusHistory: []models.OrderStatusHistory{{
			ID:        uuid.New(),
			OrderID:   orderID,
			Status:    enums.OrderStatusPending,
			Note:      "Order created",
			CreatedAt: now,
		}},
		Subtotal:          quote.Subtotal,
		ShippingCost:      quote.ShippingCost,
		Tax:               quote.Tax,
		Discount:          quote.Discount,
		Total:             quote.Total,
		CouponCode:        quote.CouponCode,
		EstimatedDelivery: now.AddDate(0, 0, s.deliveryDays()),
		Notes:             input.Notes,
	}
	if quote.CouponCode != nil {
		discount := quote.Discount
		order.CouponDiscount = &discount
	}
	return order
}

func (s *service) deliveryDays() int {
	if s.pricing.DeliveryDays > 0 {
		return s.pricing.DeliveryDays
	}
	return 7
}

func (s *service) resolveProducts(ctx context.Context, items []models.CartItem) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	return byID, nil
}
