package transport

import (
	"net/http"
	"time"

	"shopcart/internal/domain"
	"shopcart/internal/middleware"
	"shopcart/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemRequest represents the item creation payload
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	ImageURL    string          `json:"image_url"`
}

// UpdateItemRequest represents a partial item update; nil fields are left
// unchanged.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
}

// ItemHandler handles HTTP requests for the item catalog
type ItemHandler struct {
	itemRepo repository.ItemRepository
	logger   *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemRepo repository.ItemRepository, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// RegisterRoutes registers the catalog routes. Listing is public; mutations
// are administrative and require an authenticated admin.
func (h *ItemHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns catalog items, optionally filtered by category and price range
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ItemFilter{}

	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}

	if raw := r.URL.Query().Get("minPrice"); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		filter.MinPrice = &minPrice
	}

	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	items, err := h.itemRepo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Create adds a new item to the catalog
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Item creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Price.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}

	item := &domain.Item{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.itemRepo.Create(r.Context(), item); err != nil {
		h.logger.Error("Failed to create item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Update applies a partial update to an existing item
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Item update validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to load item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			middleware.RespondWithError(w, http.StatusBadRequest, "price must be non-negative")
			return
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	item.UpdatedAt = time.Now()

	if err := h.itemRepo.Update(r.Context(), item); err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to update item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.logger.Info("Item updated", zap.String("item_id", item.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete removes an item from the catalog
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	if err := h.itemRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to delete item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Item deleted"})
}
