package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/config"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
)

// Quote is the priced breakdown of a checkout.
type Quote struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	CouponCode   *string
}

// ComputeQuote prices a checkout: free shipping at or above the threshold,
// flat tax on the subtotal, and a percentage discount for the recognized
// coupon code. Tax and discount round half-up to 2 decimals. An unrecognized
// coupon is rejected rather than silently ignored.
func ComputeQuote(subtotal decimal.Decimal, couponCode string, cfg config.PricingConfig) (Quote, error) {
	quote := Quote{
		Subtotal:     subtotal.Round(2),
		ShippingCost: decimal.Zero,
		Tax:          decimal.Zero,
		Discount:     decimal.Zero,
	}

	threshold := decimal.NewFromFloat(cfg.FreeShippingThreshold)
	if subtotal.LessThan(threshold) {
		quote.ShippingCost = decimal.NewFromFloat(cfg.ShippingFlatFee).Round(2)
	}

	quote.Tax = subtotal.Mul(decimal.NewFromFloat(cfg.TaxRate)).Round(2)

	if code := strings.TrimSpace(couponCode); code != "" {
		if !strings.EqualFold(code, cfg.CouponCode) {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
		}
		quote.Discount = subtotal.Mul(decimal.NewFromFloat(cfg.CouponPercent)).Round(2)
		applied := cfg.CouponCode
		quote.CouponCode = &applied
	}

	quote.Total = quote.Subtotal.
		Add(quote.ShippingCost).
		Add(quote.Tax).
		Sub(quote.Discount)
	return quote, nil
}
