package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/types"
)

// PaymentDetails records the settlement metadata stamped onto an order when
// payment completes. No gateway sits behind it.
type PaymentDetails struct {
	TransactionID string           `json:"transactionId,omitempty"`
	PaymentDate   *time.Time       `json:"paymentDate,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}

// Order is the immutable checkout snapshot plus its mutable status track.
// Items and pricing never change after creation; only the status, its history
// and the payment/delivery stamps move.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'cod'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentDetails  *PaymentDetails      `gorm:"column:payment_details;type:jsonb;serializer:json"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2);not null;default:0"`
	Tax          decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null;default:0"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	CouponCode     *string          `gorm:"column:coupon_code"`
	CouponDiscount *decimal.Decimal `gorm:"column:coupon_discount;type:numeric(10,2)"`

	EstimatedDelivery time.Time        `gorm:"column:estimated_delivery;not null"`
	ActualDelivery    *time.Time       `gorm:"column:actual_delivery"`
	TrackingNumber    *string          `gorm:"column:tracking_number"`
	Notes             *string          `gorm:"column:notes"`
	CancelReason      *string          `gorm:"column:cancel_reason"`
	RefundAmount      *decimal.Decimal `gorm:"column:refund_amount;type:numeric(10,2)"`
	RefundDate        *time.Time       `gorm:"column:refund_date"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the immutable per-line snapshot captured at checkout. It keeps
// name, image and price as they were, so the order renders the same even after
// the catalog changes.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     string          `gorm:"column:image"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderStatusHistory is one append-only audit entry. Rows are never updated
// or deleted.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;not null"`
	Note      string            `gorm:"column:note"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the singular table from the schema; GORM would pluralize
// to order_status_histories.
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
