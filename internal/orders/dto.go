package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/pagination"
	"github.com/KrishMoond/eco/pkg/types"
)

// OrderItemDTO is one immutable order line.
type OrderItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"lineTotal"`
}

// StatusHistoryDTO is one audit entry on the order's status track.
type StatusHistoryDTO struct {
	Status    enums.OrderStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// PaymentDetailsDTO mirrors the settlement stamp on paid orders.
type PaymentDetailsDTO struct {
	TransactionID string     `json:"transactionId,omitempty"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"orderNumber"`
	Status            enums.OrderStatus   `json:"status"`
	Items             []OrderItemDTO      `json:"items"`
	ShippingAddress   types.Address       `json:"shippingAddress"`
	PaymentMethod     enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	PaymentDetails    *PaymentDetailsDTO  `json:"paymentDetails,omitempty"`
	Subtotal          float64             `json:"subtotal"`
	ShippingCost      float64             `json:"shippingCost"`
	Tax               float64             `json:"tax"`
	Discount          float64             `json:"discount"`
	Total             float64             `json:"total"`
	CouponCode        *string             `json:"couponCode,omitempty"`
	CouponDiscount    *float64            `json:"couponDiscount,omitempty"`
	EstimatedDelivery time.Time           `json:"estimatedDelivery"`
	ActualDelivery    *time.Time          `json:"actualDelivery,omitempty"`
	TrackingNumber    *string             `json:"trackingNumber,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
	CancelReason      *string             `json:"cancelReason,omitempty"`
	StatusHistory     []StatusHistoryDTO  `json:"statusHistory,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// OrderListResult is one page of orders.
type OrderListResult struct {
	Orders     []OrderDTO      `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

// StatsDTO summarizes a user's order history.
type StatsDTO struct {
	TotalOrders     int64   `json:"totalOrders"`
	TotalSpent      float64 `json:"totalSpent"`
	PendingOrders   int64   `json:"pendingOrders"`
	DeliveredOrders int64   `json:"deliveredOrders"`
	CancelledOrders int64   `json:"cancelledOrders"`
}

// NewOrderDTO maps the storage model to its API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice.InexactFloat64(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal.InexactFloat64(),
		})
	}

	history := make([]StatusHistoryDTO, 0, len(order.StatusHistory))
	for _, entry := range order.StatusHistory {
		history = append(history, StatusHistoryDTO{
			Status:    entry.Status,
			Note:      entry.Note,
			Timestamp: entry.CreatedAt,
		})
	}

	dto := &OrderDTO{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		Items:             items,
		ShippingAddress:   order.ShippingAddress,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		Subtotal:          order.Subtotal.InexactFloat64(),
		ShippingCost:      order.ShippingCost.InexactFloat64(),
		Tax:               order.Tax.InexactFloat64(),
		Discount:          order.Discount.InexactFloat64(),
		Total:             order.Total.InexactFloat64(),
		CouponCode:        order.CouponCode,
		EstimatedDelivery: order.EstimatedDelivery,
		ActualDelivery:    order.ActualDelivery,
		TrackingNumber:    order.TrackingNumber,
		Notes:             order.Notes,
		CancelReason:      order.CancelReason,
		StatusHistory:     history,
		CreatedAt:         order.CreatedAt,
	}
	if order.CouponDiscount != nil {
		v := order.CouponDiscount.InexactFloat64()
		dto.CouponDiscount = &v
	}
	if order.PaymentDetails != nil {
		pd := &PaymentDetailsDTO{
			TransactionID: order.PaymentDetails.TransactionID,
			PaymentDate:   order.PaymentDetails.PaymentDate,
		}
		if order.PaymentDetails.Amount != nil {
			amount := order.PaymentDetails.Amount.InexactFloat64()
			pd.Amount = &amount
		}
		dto.PaymentDetails = pd
	}
	return dto
}

// NewStatsDTO maps the aggregate row to its API shape.
func NewStatsDTO(stats *UserStats) *StatsDTO {
	if stats == nil {
		return nil
	}
	return &StatsDTO{
		TotalOrders:     stats.TotalOrders,
		TotalSpent:      stats.TotalSpent,
		PendingOrders:   stats.PendingOrders,
		DeliveredOrders: stats.DeliveredOrders,
		CancelledOrders: stats.CancelledOrders,
	}
}
