package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
)

func TestApplyStatusDeliveredSettlesCOD(t *testing.T) {
	t.Parallel()

	now := time.Now()
	order := &models.Order{
		ID:            uuid.New(),
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPending,
		Total:         decimal.RequireFromString("266.00"),
	}

	entry := ApplyStatus(order, enums.OrderStatusDelivered, "Delivered", now)

	if order.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered status, got %s", order.Status)
	}
	if order.ActualDelivery == nil || !order.ActualDelivery.Equal(now) {
		t.Fatalf("expected actual delivery stamped, got %v", order.ActualDelivery)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected COD payment settled, got %s", order.PaymentStatus)
	}
	if order.PaymentDetails == nil || order.PaymentDetails.Amount == nil || !order.PaymentDetails.Amount.Equal(order.Total) {
		t.Fatalf("expected payment details with order total, got %+v", order.PaymentDetails)
	}
	if entry.Status != enums.OrderStatusDelivered || entry.OrderID != order.ID {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	if len(order.StatusHistory) != 1 {
		t.Fatalf("expected one appended history entry, got %d", len(order.StatusHistory))
	}
}

func TestApplyStatusDeliveredKeepsPrepaidPayment(t *testing.T) {
	t.Parallel()

	order := &models.Order{
		ID:            uuid.New(),
		PaymentMethod: enums.PaymentMethodCard,
		PaymentStatus: enums.PaymentStatusPaid,
	}

	ApplyStatus(order, enums.OrderStatusDelivered, "Delivered", time.Now())

	if order.PaymentDetails != nil {
		t.Fatalf("expected no payment stamp for already-paid order, got %+v", order.PaymentDetails)
	}
}

func TestApplyStatusDoesNotRestampDelivery(t *testing.T) {
	t.Parallel()

	first := time.Now().Add(-time.Hour)
	order := &models.Order{
		ID:             uuid.New(),
		PaymentMethod:  enums.PaymentMethodCard,
		ActualDelivery: &first,
	}

	ApplyStatus(order, enums.OrderStatusDelivered, "Delivered again", time.Now())

	if !order.ActualDelivery.Equal(first) {
		t.Fatalf("expected original delivery time kept, got %v", order.ActualDelivery)
	}
}

func TestFormatOrderNumber(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000000)
	got := FormatOrderNumber(now, 1234)
	if got != "ORD17000000000001234" {
		t.Fatalf("unexpected order number: %s", got)
	}

	// Sequence values wrap into four digits.
	if got := FormatOrderNumber(now, 123456); got != "ORD17000000000003456" {
		t.Fatalf("unexpected wrapped order number: %s", got)
	}
}
