package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shopcart/internal/domain"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart data access. The cart is
// persisted as a whole aggregate: Save rewrites every line for the user in
// one transaction rather than patching individual rows. There is no version
// check, so two concurrent mutations for the same user race and the last
// write wins (known lost-update limitation).
type CartRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// Get retrieves the user's cart with item attributes joined in for display.
// A user with no cart rows gets an empty cart, never an error.
func (r *cartRepository) Get(ctx context.Context, userID uuid.UUID) (domain.Cart, error) {
	query := `
		SELECT i.id, i.name, i.description, i.price, i.category, i.image_url,
		       i.created_at, i.updated_at, cl.quantity
		FROM cart_lines cl
		JOIN items i ON i.id = cl.item_id
		WHERE cl.user_id = $1
		ORDER BY cl.added_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}
	defer rows.Close()

	cart := domain.EmptyCart(userID)
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.Item.ID,
			&line.Item.Name,
			&line.Item.Description,
			&line.Item.Price,
			&line.Item.Category,
			&line.Item.ImageURL,
			&line.Item.CreatedAt,
			&line.Item.UpdatedAt,
			&line.Quantity,
		)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Items = append(cart.Items, line)
	}

	if err = rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return cart, nil
}

// Save persists the full cart for the user, replacing whatever was stored
func (r *cartRepository) Save(ctx context.Context, cart domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cart transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, cart.UserID); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}

	insert := `
		INSERT INTO cart_lines (user_id, item_id, quantity, added_at)
		VALUES ($1, $2, $3, now())
	`
	for _, line := range cart.Items {
		if _, err := tx.ExecContext(ctx, insert, cart.UserID, line.Item.ID, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart transaction: %w", err)
	}

	return nil
}
