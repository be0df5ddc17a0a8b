package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are serialized as JSON numbers, matching the REST contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item represents a catalog entry. Prices are exact decimals; binary
// floating point would drift on the tax computation.
type Item struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
