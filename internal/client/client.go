package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shopcart/internal/domain"
	"shopcart/internal/middleware"
	"shopcart/internal/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Local validation failures; these short-circuit before any network call.
var (
	ErrMissingFields    = errors.New("email and password are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// APIError is a non-2xx response collapsed into a single user-facing
// message derived from the status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func friendlyMessage(status int, serverMsg string) string {
	switch {
	case status == http.StatusBadRequest:
		return "Invalid request. Please check your input."
	case status == http.StatusUnauthorized:
		return "You're not authorized. Please log in."
	case status == http.StatusForbidden:
		return "You don't have permission to do that."
	case status == http.StatusNotFound:
		return "Not found."
	case status >= 500:
		return "Server error. Please try again later."
	case serverMsg != "":
		return serverMsg
	default:
		return "Something went wrong"
	}
}

// ItemFilter holds the optional catalog query parameters
type ItemFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Client talks to the shopcart API on behalf of one session. It keeps an
// optimistic local cart that mirrors user actions immediately and treats
// the server cart as authoritative only at explicit refetch points
// (RefreshCart).
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *Store
	cart       *LocalCart
}

// New creates a client persisting its session under sessionDir
func New(baseURL, sessionDir string) (*Client, error) {
	store, err := NewStore(sessionDir)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		// No request cancellation beyond a flat timeout; errors are surfaced
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
		cart:       NewLocalCart(store),
	}, nil
}

// Cart exposes the local cart cache
func (c *Client) Cart() *LocalCart {
	return c.cart
}

// Token returns the current session token, "" when logged out
func (c *Client) Token() string {
	return c.store.Token()
}

// Register creates an account and stores the issued token
func (c *Client) Register(ctx context.Context, email, password, confirmPassword string) error {
	if email == "" || password == "" {
		return ErrMissingFields
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	var resp transport.TokenResponse
	err := c.post(ctx, "/api/auth/register", transport.RegisterRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}

	return c.store.SetToken(resp.Token)
}

// Login authenticates and stores the issued token
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingFields
	}

	var resp transport.TokenResponse
	err := c.post(ctx, "/api/auth/login", transport.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}

	return c.store.SetToken(resp.Token)
}

// Logout drops the stored token; the local cart persists across sessions
func (c *Client) Logout() error {
	return c.store.SetToken("")
}

// Items fetches the catalog with optional filters
func (c *Client) Items(ctx context.Context, filter ItemFilter) ([]domain.Item, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.MinPrice != nil {
		query.Set("minPrice", filter.MinPrice.String())
	}
	if filter.MaxPrice != nil {
		query.Set("maxPrice", filter.MaxPrice.String())
	}

	path := "/api/items"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var items []domain.Item
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart applies the optimistic local update, then upserts the line into
// the authoritative server cart. The local update stands even when the
// server call fails; the error is surfaced for the caller to handle.
func (c *Client) AddToCart(ctx context.Context, item domain.Item, quantity int) error {
	if err := c.cart.AddItem(item, quantity); err != nil {
		return err
	}

	var serverCart domain.Cart
	return c.post(ctx, "/api/cart/add", transport.AddToCartRequest{
		Item:     item.ID.String(),
		Quantity: quantity,
	}, &serverCart)
}

// RemoveFromCart removes the line locally and from the server cart
func (c *Client) RemoveFromCart(ctx context.Context, itemID uuid.UUID) error {
	if err := c.cart.Remove(itemID); err != nil {
		return err
	}

	var serverCart domain.Cart
	return c.post(ctx, "/api/cart/remove", transport.RemoveFromCartRequest{
		Item: itemID.String(),
	}, &serverCart)
}

// RefreshCart replaces the local cart with the authoritative server copy
func (c *Client) RefreshCart(ctx context.Context) error {
	var serverCart domain.Cart
	if err := c.get(ctx, "/api/cart", &serverCart); err != nil {
		return err
	}

	lines := make([]Line, 0, len(serverCart.Items))
	for _, line := range serverCart.Items {
		lines = append(lines, Line{
			ItemID:   line.Item.ID,
			Name:     line.Item.Name,
			Price:    line.Item.Price,
			ImageURL: line.Item.ImageURL,
			Quantity: line.Quantity,
		})
	}

	return c.cart.Replace(lines)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	// Attach the token automatically, like the browser interceptor did
	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope middleware.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{
			Status:  resp.StatusCode,
			Message: friendlyMessage(resp.StatusCode, envelope.Error.Message),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
