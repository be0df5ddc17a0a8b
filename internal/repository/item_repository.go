package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcart/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// ItemFilter holds the optional catalog query filters. Nil fields are not
// applied.
type ItemFilter struct {
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ItemRepository defines the interface for catalog data access
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create inserts a new item into the database using parameterized queries
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, description, price, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.ImageURL,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// Update updates an existing item in the database using parameterized queries
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, price = $4, category = $5,
		    image_url = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.ImageURL,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete removes an item from the database using parameterized queries
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// FindByID retrieves an item by ID using parameterized queries
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `
		SELECT id, name, description, price, category, image_url, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item := &domain.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}

	return item, nil
}

// List retrieves items matching the optional category and price-range filters
func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]*domain.Item, error) {
	// Build the WHERE clause from the provided filters
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	addCondition := func(condition string, value interface{}) {
		if whereClause == "" {
			whereClause = "WHERE "
		} else {
			whereClause += " AND "
		}
		whereClause += fmt.Sprintf(condition, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.Category != nil {
		addCondition("category = $%d", *filter.Category)
	}
	if filter.MinPrice != nil {
		addCondition("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition("price <= $%d", *filter.MaxPrice)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, category, image_url, created_at, updated_at
		FROM items
		%s
		ORDER BY created_at DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item := &domain.Item{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.ImageURL,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}
