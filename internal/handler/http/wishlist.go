package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/internal/service"
	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/httputil"
	"github.com/solemart/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	wishlists *service.WishlistService
	catalog   ProductGetter
	logger    *slog.Logger
}

// NewWishlistHandler creates a wishlist HTTP handler.
func NewWishlistHandler(wishlists *service.WishlistService, catalog ProductGetter, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		catalog:   catalog,
		logger:    logger,
	}
}

// AddWishlistItemRequest is the JSON request body for saving a product.
// VariantID is optional: listings save without a variant choice.
type AddWishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.wishlists.Get(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var variant *domain.Variant
	if req.VariantID != "" {
		variant = product.VariantByID(req.VariantID)
		if variant == nil {
			httputil.WriteError(w, r, apperrors.NotFound("variant", req.VariantID), h.logger)
			return
		}
	}

	wishlist, err := h.wishlists.Add(r.Context(), ownerFromContext(r.Context()), product, variant)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productID}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	wishlist, err := h.wishlists.Remove(r.Context(), ownerFromContext(r.Context()), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlist})
}
