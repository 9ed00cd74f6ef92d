package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/internal/service"
	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/httputil"
	"github.com/solemart/storefront/pkg/middleware"
	"github.com/solemart/storefront/pkg/validator"
)

// ProductGetter is the single catalog lookup the cart and wishlist
// handlers need.
type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// CartHandler handles HTTP requests for cart endpoints. Products are fetched
// live on add so the snapshot carries current price and stock; everything
// after that works off the stored cart.
type CartHandler struct {
	carts   *service.CartService
	catalog ProductGetter
	logger  *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(carts *service.CartService, catalog ProductGetter, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's
// quantity. Values below one are accepted and remove the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartView decorates the stored cart with its derived totals.
type cartView struct {
	*domain.Cart
	Subtotal  int64 `json:"subtotal"`
	ItemCount int   `json:"item_count"`
}

func newCartView(c *domain.Cart) cartView {
	return cartView{Cart: c, Subtotal: c.Subtotal(), ItemCount: c.ItemCount()}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	variant := product.VariantByID(req.VariantID)
	if variant == nil {
		httputil.WriteError(w, r, apperrors.NotFound("variant", req.VariantID), h.logger)
		return
	}
	if !variant.Purchasable() {
		httputil.WriteError(w, r, apperrors.OutOfStock(product.ID, variant.ID), h.logger)
		return
	}

	quote := domain.ResolvePrice(product, middleware.IsWholesale(r.Context()))

	cart, err := h.carts.AddItem(r.Context(), ownerFromContext(r.Context()), product, variant, req.Quantity, quote.DisplayPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{lineID}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), ownerFromContext(r.Context()), lineID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{lineID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	cart, err := h.carts.RemoveLine(r.Context(), ownerFromContext(r.Context()), lineID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), ownerFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
