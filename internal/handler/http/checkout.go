package http

import (
	"log/slog"
	"net/http"

	"github.com/solemart/storefront/internal/service"
	"github.com/solemart/storefront/pkg/httputil"
)

// CheckoutHandler hands the cart off to the backend order API.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// Initiate handles POST /api/v1/checkout
func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.Initiate(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
