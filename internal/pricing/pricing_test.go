package pricing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesFromCents(cents []int64, quantities []int) []Line {
	n := len(cents)
	if len(quantities) < n {
		n = len(quantities)
	}
	lines := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, Line{
			Price:    decimal.New(cents[i], -2),
			Quantity: quantities[i],
		})
	}
	return lines
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals([]Line{})

	assert.True(t, totals.Subtotal.IsZero(), "subtotal should be zero")
	assert.True(t, totals.Shipping.IsZero(), "shipping should be zero for an empty cart")
	assert.True(t, totals.Tax.IsZero(), "tax should be zero")
	assert.True(t, totals.Discount.IsZero(), "discount should be zero")
	assert.True(t, totals.Total.IsZero(), "total should be zero")
}

func TestComputeTotals_NilLines(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Shipping.IsZero())
}

func TestComputeTotals_ReferenceScenario(t *testing.T) {
	lines := []Line{
		{Price: decimal.NewFromInt(1000), Quantity: 1},
		{Price: decimal.NewFromInt(1500), Quantity: 1},
	}

	totals := ComputeTotals(lines)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(2500)), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(99)), "shipping = %s", totals.Shipping)
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(450)), "tax = %s", totals.Tax)
	assert.True(t, totals.Discount.Equal(decimal.NewFromInt(200)), "discount = %s", totals.Discount)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(2849)), "total = %s", totals.Total)
}

func TestComputeTotals_DiscountBoundary(t *testing.T) {
	// Exactly 2000: no discount
	atThreshold := ComputeTotals([]Line{{Price: decimal.NewFromInt(2000), Quantity: 1}})
	assert.True(t, atThreshold.Discount.IsZero(), "discount must not activate at subtotal == 2000")

	// One cent over: discount applies
	justOver := ComputeTotals([]Line{{Price: decimal.RequireFromString("2000.01"), Quantity: 1}})
	assert.True(t, justOver.Discount.Equal(decimal.NewFromInt(200)), "discount must activate at subtotal > 2000")
}

func TestComputeTotals_TaxExcludesShipping(t *testing.T) {
	// A single cheap line: tax must be 18% of the subtotal alone
	totals := ComputeTotals([]Line{{Price: decimal.NewFromInt(100), Quantity: 1}})

	require.True(t, totals.Tax.Equal(decimal.NewFromInt(18)), "tax = %s", totals.Tax)
	expectedTotal := decimal.NewFromInt(100 + 99 + 18)
	assert.True(t, totals.Total.Equal(expectedTotal), "total = %s", totals.Total)
}

func TestComputeTotals_NegativeInputsTreatedAsZero(t *testing.T) {
	totals := ComputeTotals([]Line{
		{Price: decimal.NewFromInt(-50), Quantity: 2},
		{Price: decimal.NewFromInt(10), Quantity: -3},
	})

	// Both lines contribute zero to the subtotal, but the cart is non-empty
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(99)))
}

// computeTotals is idempotent: same input, same output, no hidden state
func TestProperty_ComputeTotalsIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated calls on the same lines yield identical totals", prop.ForAll(
		func(cents []int64, quantities []int) bool {
			lines := linesFromCents(cents, quantities)

			first := ComputeTotals(lines)
			second := ComputeTotals(lines)

			return first.Subtotal.Equal(second.Subtotal) &&
				first.Shipping.Equal(second.Shipping) &&
				first.Tax.Equal(second.Tax) &&
				first.Discount.Equal(second.Discount) &&
				first.Total.Equal(second.Total)
		},
		gen.SliceOf(gen.Int64Range(0, 1_000_000)),
		gen.SliceOf(gen.IntRange(1, 99)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// The pipeline identity holds for arbitrary carts
func TestProperty_TotalIsPipelineSum(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total = subtotal + shipping + tax - discount", prop.ForAll(
		func(cents []int64, quantities []int) bool {
			lines := linesFromCents(cents, quantities)
			totals := ComputeTotals(lines)

			expected := totals.Subtotal.Add(totals.Shipping).Add(totals.Tax).Sub(totals.Discount)
			if !totals.Total.Equal(expected) {
				return false
			}

			// Shipping is flat and driven only by emptiness
			if len(lines) == 0 {
				return totals.Shipping.IsZero()
			}
			return totals.Shipping.Equal(ShippingFlat)
		},
		gen.SliceOf(gen.Int64Range(0, 1_000_000)),
		gen.SliceOf(gen.IntRange(1, 99)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// The discount is a step function of the subtotal, never proportional
func TestProperty_DiscountIsThresholdStep(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("discount is 200 above 2000 and 0 otherwise", prop.ForAll(
		func(cents int64, quantity int) bool {
			lines := []Line{{Price: decimal.New(cents, -2), Quantity: quantity}}
			totals := ComputeTotals(lines)

			if totals.Subtotal.GreaterThan(DiscountThreshold) {
				return totals.Discount.Equal(DiscountFlat)
			}
			return totals.Discount.IsZero()
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(1, 99),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
