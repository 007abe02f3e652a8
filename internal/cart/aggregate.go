package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/db/models"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
)

// MaxLineQuantity caps how many units of one product a cart line may hold.
const MaxLineQuantity = 10

// addLine merges quantity into an existing line for the product or appends a
// new one. The merged quantity must stay within the per-line cap.
func addLine(items []models.CartItem, productID uuid.UUID, quantity int, unitPrice decimal.Decimal, now time.Time) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot exceed 10 per product")
	}

	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		merged := items[i].Quantity + quantity
		if merged > MaxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot exceed 10 per product")
		}
		items[i].Quantity = merged
		items[i].UnitPrice = unitPrice
		items[i].AddedAt = now
		return items, nil
	}

	return append(items, models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		AddedAt:   now,
	}), nil
}

// setLineQuantity replaces the quantity on an existing line. Zero or negative
// removes the line; the line must exist.
func setLineQuantity(items []models.CartItem, productID uuid.UUID, quantity int, now time.Time) ([]models.CartItem, error) {
	if quantity > MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot exceed 10 per product")
	}

	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			return removeLine(items, productID), nil
		}
		items[i].Quantity = quantity
		items[i].AddedAt = now
		return items, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
}

// removeLine drops the line for the product if present. Removing an absent
// line is a no-op.
func removeLine(items []models.CartItem, productID uuid.UUID) []models.CartItem {
	out := items[:0]
	for _, item := range items {
		if item.ProductID == productID {
			continue
		}
		out = append(out, item)
	}
	return out
}

// recomputeTotals derives the cart totals from its lines.
func recomputeTotals(items []models.CartItem) (int, decimal.Decimal) {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totalItems, totalPrice
}
