package client

import (
	"errors"
	"fmt"

	"shopcart/internal/domain"
	"shopcart/internal/pricing"

	"github.com/google/uuid"
)

// Quantity bounds enforced on the client cart. The minimum is a hard
// invariant (a line can never reach zero by updating its quantity; removal
// is a separate, explicit operation); the maximum is a UI-level cap.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrQuantityOutOfRange = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)
)

// LocalCart is the client-side cart cache. It applies the same additive
// merge rule as the server aggregate and keeps the session store in sync on
// every change. Mutations follow the UI-thread model: one user action is
// processed to completion before the next, so LocalCart is not safe for
// concurrent use.
type LocalCart struct {
	store *Store
	lines []Line
}

// NewLocalCart builds a cart seeded from the persisted session state
func NewLocalCart(store *Store) *LocalCart {
	return &LocalCart{
		store: store,
		lines: store.CartLines(),
	}
}

// Lines returns a copy of the current cart lines
func (c *LocalCart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// AddItem merges quantity of the item into the cart, snapshotting its
// current price, name and image for display.
func (c *LocalCart) AddItem(item domain.Item, quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}

	if idx := c.find(item.ID); idx >= 0 {
		c.lines[idx].Quantity += quantity
	} else {
		c.lines = append(c.lines, Line{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Quantity: quantity,
		})
	}

	return c.store.SaveCartLines(c.lines)
}

// SetQuantity replaces a line's quantity. Requests outside [1, 99] are
// rejected and the line keeps its previous quantity; in particular a
// quantity can never be driven below 1.
func (c *LocalCart) SetQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}

	idx := c.find(itemID)
	if idx < 0 {
		return nil
	}

	c.lines[idx].Quantity = quantity
	return c.store.SaveCartLines(c.lines)
}

// Remove drops the line for itemID. Removing an absent line is a no-op.
func (c *LocalCart) Remove(itemID uuid.UUID) error {
	idx := c.find(itemID)
	if idx < 0 {
		return nil
	}

	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return c.store.SaveCartLines(c.lines)
}

// Clear empties the cart
func (c *LocalCart) Clear() error {
	c.lines = []Line{}
	return c.store.SaveCartLines(c.lines)
}

// Replace swaps in lines fetched from the authoritative server cart. This
// is the explicit refetch point where the server copy wins over local
// optimistic updates.
func (c *LocalCart) Replace(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	c.lines = lines
	return c.store.SaveCartLines(c.lines)
}

// Totals derives the order summary from scratch on every call; nothing is
// cached between calls, so repeated reads cannot drift.
func (c *LocalCart) Totals() pricing.Totals {
	priced := make([]pricing.Line, len(c.lines))
	for i, line := range c.lines {
		priced[i] = pricing.Line{Price: line.Price, Quantity: line.Quantity}
	}
	return pricing.ComputeTotals(priced)
}

// Checkout validates and finalizes the cart: an empty cart is refused, a
// non-empty one yields its final totals and is cleared exactly once.
func (c *LocalCart) Checkout() (pricing.Totals, error) {
	if len(c.lines) == 0 {
		return pricing.Totals{}, ErrEmptyCart
	}

	totals := c.Totals()
	if err := c.Clear(); err != nil {
		return pricing.Totals{}, err
	}
	return totals, nil
}

func (c *LocalCart) find(itemID uuid.UUID) int {
	for i, line := range c.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
