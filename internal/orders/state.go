package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
)

// ApplyStatus moves the order to the new status and returns the history entry
// to persist. Any transition is accepted; callers gate the ones they care
// about (cancellation) before calling. Delivery stamps the actual delivery
// time, and delivering a COD order settles its payment.
func ApplyStatus(order *models.Order, status enums.OrderStatus, note string, now time.Time) models.OrderStatusHistory {
	order.Status = status

	if status == enums.OrderStatusDelivered {
		if order.ActualDelivery == nil {
			delivered := now
			order.ActualDelivery = &delivered
		}
		if order.PaymentMethod == enums.PaymentMethodCOD && order.PaymentStatus != enums.PaymentStatusPaid {
			order.PaymentStatus = enums.PaymentStatusPaid
			paidAt := now
			amount := order.Total
			order.PaymentDetails = &models.PaymentDetails{
				PaymentDate: &paidAt,
				Amount:      &amount,
			}
		}
	}

	entry := models.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    status,
		Note:      note,
		CreatedAt: now,
	}
	order.StatusHistory = append(order.StatusHistory, entry)
	return entry
}
