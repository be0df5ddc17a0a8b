package pricing

import (
	"github.com/shopspring/decimal"
)

// Pricing constants. Amounts are minor-unit agnostic: shipping is a flat 99,
// the discount is a flat 200 once the subtotal strictly exceeds 2000, and tax
// is 18% of the subtotal only (shipping is never taxed).
var (
	ShippingFlat      = decimal.NewFromInt(99)
	TaxRate           = decimal.RequireFromString("0.18")
	DiscountThreshold = decimal.NewFromInt(2000)
	DiscountFlat      = decimal.NewFromInt(200)
)

// Line is one cart entry as seen by the pricing pipeline. Price is the
// snapshot captured when the item was added to the cart, not a live catalog
// lookup, so later catalog price changes do not reprice existing lines.
type Line struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Totals is the derived value object for a cart. It is never persisted and
// must be recomputed from scratch on every change to the lines.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives the order summary from the given lines. It is a pure
// function: no hidden state, identical output for identical input. Negative
// prices or quantities are treated as zero.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		price := line.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	shipping := decimal.Zero
	if len(lines) > 0 {
		shipping = ShippingFlat
	}

	tax := subtotal.Mul(TaxRate)

	discount := decimal.Zero
	if subtotal.GreaterThan(DiscountThreshold) {
		discount = DiscountFlat
	}

	total := subtotal.Add(shipping).Add(tax).Sub(discount)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}
