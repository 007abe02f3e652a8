package orders

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/KrishMoond/eco/pkg/config"
	pkgerrors "github.com/KrishMoond/eco/pkg/errors"
)

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		ShippingFlatFee:       50,
		FreeShippingThreshold: 500,
		TaxRate:               0.18,
		CouponCode:            "WELCOME10",
		CouponPercent:         0.10,
		DeliveryDays:          7,
	}
}

func TestComputeQuoteChargesShippingBelowThreshold(t *testing.T) {
	t.Parallel()

	quote, err := ComputeQuote(decimal.NewFromInt(100), "", testPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.ShippingCost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50 shipping, got %s", quote.ShippingCost)
	}
	if !quote.Tax.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("expected 18 tax, got %s", quote.Tax)
	}
	if !quote.Total.Equal(decimal.NewFromInt(168)) {
		t.Fatalf("expected 168 total, got %s", quote.Total)
	}
}

func TestComputeQuoteFreeShippingAtThreshold(t *testing.T) {
	t.Parallel()

	quote, err := ComputeQuote(decimal.NewFromInt(500), "", testPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.ShippingCost.IsZero() {
		t.Fatalf("expected free shipping at the threshold, got %s", quote.ShippingCost)
	}
	if !quote.Total.Equal(decimal.NewFromInt(590)) {
		t.Fatalf("expected 590 total, got %s", quote.Total)
	}
}

func TestComputeQuoteAppliesCoupon(t *testing.T) {
	t.Parallel()

	quote, err := ComputeQuote(decimal.NewFromInt(200), "welcome10", testPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 discount, got %s", quote.Discount)
	}
	if quote.CouponCode == nil || *quote.CouponCode != "WELCOME10" {
		t.Fatalf("expected canonical coupon code, got %v", quote.CouponCode)
	}
	// 200 + 50 shipping + 36 tax - 20 discount
	if !quote.Total.Equal(decimal.NewFromInt(266)) {
		t.Fatalf("expected 266 total, got %s", quote.Total)
	}
}

func TestComputeQuoteRoundsTaxAndDiscount(t *testing.T) {
	t.Parallel()

	quote, err := ComputeQuote(decimal.RequireFromString("99.99"), "WELCOME10", testPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("18.00"); !quote.Tax.Equal(want) {
		t.Fatalf("expected tax %s, got %s", want, quote.Tax)
	}
	if want := decimal.RequireFromString("10.00"); !quote.Discount.Equal(want) {
		t.Fatalf("expected discount %s, got %s", want, quote.Discount)
	}
}

func TestComputeQuoteRejectsUnknownCoupon(t *testing.T) {
	t.Parallel()

	_, err := ComputeQuote(decimal.NewFromInt(100), "SAVE50", testPricingConfig())
	if err == nil {
		t.Fatal("expected error for unknown coupon")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}
