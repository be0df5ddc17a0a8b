package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a client-side cart entry. It denormalizes the item attributes
// captured at add time so the cart renders without a catalog join; in
// particular the price is a snapshot, not a live catalog value.
type Line struct {
	ItemID   uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image"`
	Quantity int             `json:"qty"`
}

const (
	tokenFile = "token"
	cartFile  = "cart.json"
)

// Store persists session state between runs under a directory: one file
// holding the raw bearer token and one holding the JSON-serialized cart
// lines. Both are rewritten on every change. Corrupt or unreadable cart
// data loads as an empty slice, never an error.
type Store struct {
	dir string
}

// NewStore creates a session store rooted at dir
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Token returns the stored bearer token, or "" when none is stored
func (s *Store) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetToken stores the bearer token; an empty token removes the file
func (s *Store) SetToken(token string) error {
	path := filepath.Join(s.dir, tokenFile)
	if token == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// CartLines loads the persisted cart lines. Missing or corrupt data yields
// an empty slice.
func (s *Store) CartLines() []Line {
	data, err := os.ReadFile(filepath.Join(s.dir, cartFile))
	if err != nil {
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return []Line{}
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines
}

// SaveCartLines rewrites the persisted cart lines
func (s *Store) SaveCartLines(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, cartFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}
