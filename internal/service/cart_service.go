package service

import (
	"context"
	"errors"
	"fmt"

	"shopcart/internal/domain"
	"shopcart/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// CartService owns the authoritative per-user cart. Merge rule: adding an
// item already in the cart adds the supplied quantity to the existing line
// instead of appending a duplicate, so an item id appears at most once and
// quantities never drop below 1. Removing an absent line (or operating on a
// user with no cart yet) is a defined no-op, never an error.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.Cart, error)
	AddLine(ctx context.Context, userID, itemID uuid.UUID, quantity int) (domain.Cart, error)
	RemoveLine(ctx context.Context, userID, itemID uuid.UUID) (domain.Cart, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, itemRepo repository.ItemRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

// Get returns the user's cart, or an empty cart if none exists yet
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddLine merges quantity of itemID into the cart and persists the whole
// aggregate. The cart is created lazily on the first add.
func (s *cartService) AddLine(ctx context.Context, userID, itemID uuid.UUID, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	if idx := cart.FindLine(itemID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		item, err := s.itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return domain.Cart{}, err
		}
		cart.Items = append(cart.Items, domain.CartLine{Item: *item, Quantity: quantity})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// RemoveLine drops the line matching itemID if present and persists the
// whole aggregate. Removing an absent line leaves the cart untouched.
func (s *cartService) RemoveLine(ctx context.Context, userID, itemID uuid.UUID) (domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	idx := cart.FindLine(itemID)
	if idx < 0 {
		return cart, nil
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}
