package transport

import (
	"net/http"

	"shopcart/internal/middleware"
	"shopcart/internal/repository"
	"shopcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload. Quantity must be a
// positive integer; the server applies the additive merge.
type AddToCartRequest struct {
	Item     string `json:"item" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// RemoveFromCartRequest represents the remove-from-cart payload
type RemoveFromCartRequest struct {
	Item string `json:"item" validate:"required,uuid"`
}

// CartHandler handles HTTP requests for the authenticated user's cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart routes. Every cart operation requires a
// verified identity; unauthenticated calls are rejected by the middleware
// before any cart logic runs.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Get)
		r.Post("/add", h.Add)
		r.Post("/remove", h.Remove)
	})
}

func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.logger.Error("Invalid user ID in token", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
		return uuid.Nil, false
	}

	return userID, true
}

// Get returns the user's cart, or {"items": []} if none exists yet
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// Add merges an item into the cart and returns the full updated cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.Item)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	cart, err := h.cartService.AddLine(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		switch err {
		case service.ErrInvalidQuantity:
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be a positive integer")
		case repository.ErrItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	h.logger.Info("Cart line added",
		zap.String("user_id", userID.String()),
		zap.String("item_id", itemID.String()),
		zap.Int("quantity", req.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// Remove drops an item from the cart and returns the updated cart. Removing
// an item that is not in the cart is a no-op, not an error.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req RemoveFromCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Remove from cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.Item)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	cart, err := h.cartService.RemoveLine(r.Context(), userID, itemID)
	if err != nil {
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	h.logger.Info("Cart line removed",
		zap.String("user_id", userID.String()),
		zap.String("item_id", itemID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, cart)
}
