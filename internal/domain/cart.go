package domain

import (
	"github.com/google/uuid"
)

// CartLine is one (item, quantity) pairing within a user's cart. An item
// appears at most once per cart; quantity is always >= 1.
type CartLine struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity"`
}

// Cart is the authoritative server-side cart for a single user. The owner is
// implied by the request identity and not part of the wire representation, so
// a user with no cart rows serializes to {"items": []}.
type Cart struct {
	UserID uuid.UUID  `json:"-"`
	Items  []CartLine `json:"items"`
}

// EmptyCart returns the representation used when no cart exists yet.
func EmptyCart(userID uuid.UUID) Cart {
	return Cart{UserID: userID, Items: []CartLine{}}
}

// FindLine returns the index of the line holding itemID, or -1.
func (c *Cart) FindLine(itemID uuid.UUID) int {
	for i, line := range c.Items {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}
