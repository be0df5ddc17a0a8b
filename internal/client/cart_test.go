package client

import (
	"testing"

	"shopcart/internal/domain"
	"shopcart/internal/pricing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) *LocalCart {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewLocalCart(store)
}

func catalogItem(name string, price int64) domain.Item {
	return domain.Item{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Category: "electronics",
		ImageURL: "https://cdn.example.com/" + name + ".png",
	}
}

// No sequence of quantity updates can drive a line below 1
func TestProperty_QuantityNeverDropsBelowMinimum(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("lines keep a quantity of at least 1 under arbitrary updates", prop.ForAll(
		func(updates []int) bool {
			cart := newTestCart(t)
			item := catalogItem("keyboard", 250)

			if err := cart.AddItem(item, 1); err != nil {
				t.Logf("FAIL: add errored: %v", err)
				return false
			}

			for _, q := range updates {
				err := cart.SetQuantity(item.ID, q)
				if q >= MinQuantity && q <= MaxQuantity {
					if err != nil {
						t.Logf("FAIL: in-range update %d errored: %v", q, err)
						return false
					}
				} else if err != ErrQuantityOutOfRange {
					t.Logf("FAIL: out-of-range update %d not rejected: %v", q, err)
					return false
				}
			}

			lines := cart.Lines()
			if len(lines) != 1 {
				t.Logf("FAIL: expected 1 line, got %d", len(lines))
				return false
			}
			if lines[0].Quantity < MinQuantity || lines[0].Quantity > MaxQuantity {
				t.Logf("FAIL: quantity %d escaped the bounds", lines[0].Quantity)
				return false
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-10, 120)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Adding the same item repeatedly merges into a single line
func TestProperty_AddItemMergesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("add(q1) then add(q2) leaves one line with q1+q2", prop.ForAll(
		func(q1 int, q2 int) bool {
			cart := newTestCart(t)
			item := catalogItem("monitor", 1500)

			if err := cart.AddItem(item, q1); err != nil {
				t.Logf("FAIL: first add errored: %v", err)
				return false
			}
			if err := cart.AddItem(item, q2); err != nil {
				t.Logf("FAIL: second add errored: %v", err)
				return false
			}

			lines := cart.Lines()
			return len(lines) == 1 && lines[0].Quantity == q1+q2
		},
		gen.IntRange(1, 49),
		gen.IntRange(1, 49),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLocalCart_AddRejectsOutOfRangeQuantity(t *testing.T) {
	cart := newTestCart(t)
	item := catalogItem("lamp", 80)

	for _, q := range []int{0, -1, 100, 500} {
		err := cart.AddItem(item, q)
		assert.ErrorIs(t, err, ErrQuantityOutOfRange, "quantity %d", q)
	}

	assert.Empty(t, cart.Lines())
}

func TestLocalCart_SetQuantityRejectionKeepsPreviousValue(t *testing.T) {
	cart := newTestCart(t)
	item := catalogItem("desk", 900)

	require.NoError(t, cart.AddItem(item, 5))

	assert.ErrorIs(t, cart.SetQuantity(item.ID, 0), ErrQuantityOutOfRange)
	assert.ErrorIs(t, cart.SetQuantity(item.ID, 100), ErrQuantityOutOfRange)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "rejected updates must not touch the line")
}

func TestLocalCart_SetQuantityOnAbsentItemIsNoOp(t *testing.T) {
	cart := newTestCart(t)

	require.NoError(t, cart.SetQuantity(uuid.New(), 3))
	assert.Empty(t, cart.Lines())
}

func TestLocalCart_RemoveAbsentItemIsNoOp(t *testing.T) {
	cart := newTestCart(t)
	item := catalogItem("mug", 20)

	require.NoError(t, cart.AddItem(item, 2))
	require.NoError(t, cart.Remove(uuid.New()))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestLocalCart_AddSnapshotsItemAttributes(t *testing.T) {
	cart := newTestCart(t)
	item := catalogItem("headphones", 1200)

	require.NoError(t, cart.AddItem(item, 1))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, item.ID, lines[0].ItemID)
	assert.Equal(t, "headphones", lines[0].Name)
	assert.Equal(t, item.ImageURL, lines[0].ImageURL)
	assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(1200)))
}

func TestLocalCart_TotalsMatchPricingPipeline(t *testing.T) {
	cart := newTestCart(t)

	require.NoError(t, cart.AddItem(catalogItem("a", 1000), 1))
	require.NoError(t, cart.AddItem(catalogItem("b", 1500), 1))

	totals := cart.Totals()

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(2500)))
	assert.True(t, totals.Shipping.Equal(pricing.ShippingFlat))
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(450)))
	assert.True(t, totals.Discount.Equal(pricing.DiscountFlat))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(2849)))
}

func TestLocalCart_CheckoutRefusesEmptyCart(t *testing.T) {
	cart := newTestCart(t)

	_, err := cart.Checkout()

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestLocalCart_CheckoutClearsExactlyOnce(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(catalogItem("keyboard", 250), 2))

	totals, err := cart.Checkout()
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, cart.Lines())

	// A second checkout finds an empty cart and refuses
	_, err = cart.Checkout()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestLocalCart_ReplaceSwapsInServerCopy(t *testing.T) {
	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(catalogItem("local-only", 10), 1))

	serverLines := []Line{
		{ItemID: uuid.New(), Name: "monitor", Price: decimal.NewFromInt(1500), Quantity: 2},
	}
	require.NoError(t, cart.Replace(serverLines))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "monitor", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)

	require.NoError(t, cart.Replace(nil))
	assert.Empty(t, cart.Lines())
}
