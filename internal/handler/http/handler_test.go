package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solemart/storefront/internal/catalog"
	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/internal/repository/memory"
	"github.com/solemart/storefront/internal/service"
	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/health"
	"github.com/solemart/storefront/pkg/httpclient"
	"github.com/solemart/storefront/pkg/middleware"
	"github.com/solemart/storefront/pkg/pagination"
)

// stubCatalog serves canned products without touching the network.
type stubCatalog struct {
	products map[string]*domain.Product
}

func (c *stubCatalog) ListProducts(_ context.Context, _ catalog.ListFilter, _ pagination.Params) ([]domain.Product, int, error) {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (c *stubCatalog) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := c.products[productID]
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}
	return p, nil
}

func (c *stubCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: "c-1", Name: "Shirts"}}, nil
}

func (c *stubCatalog) ListSliders(context.Context) ([]catalog.Slider, error) {
	return []catalog.Slider{{ID: "s-1", Title: "Summer Sale"}}, nil
}

// noopPublisher satisfies service.EventPublisher.
type noopPublisher struct{}

func (noopPublisher) PublishCartUpdated(context.Context, *domain.Cart) error        { return nil }
func (noopPublisher) PublishCartCleared(context.Context, string) error              { return nil }
func (noopPublisher) PublishWishlistUpdated(context.Context, *domain.Wishlist) error { return nil }
func (noopPublisher) PublishCheckoutInitiated(context.Context, string, string, *domain.Cart) error {
	return nil
}

// stubValidator accepts two fixed tokens.
func stubValidator(token string) (*middleware.Claims, error) {
	switch token {
	case "retail-token":
		return &middleware.Claims{UserID: "user-retail", Role: "customer"}, nil
	case "wholesale-token":
		return &middleware.Claims{UserID: "user-ws", Role: middleware.RoleWholesale}, nil
	default:
		return nil, errors.New("bad token")
	}
}

func catalogProduct() *domain.Product {
	offer := int64(3900)
	wholesale := int64(3000)
	return &domain.Product{
		ID:             "p-1",
		Name:           "Linen Shirt",
		Category:       "Shirts",
		NormalPrice:    4500,
		OfferPrice:     &offer,
		WholesalePrice: &wholesale,
		Variants: []domain.Variant{
			{ID: "v-sold-out", Color: "Red", Size: "S", Stock: 0, SKU: "LS-RD-S"},
			{ID: "v-1", Color: "Blue", Size: "M", Stock: 5, SKU: "LS-BL-M"},
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	cat := &stubCatalog{products: map[string]*domain.Product{"p-1": catalogProduct()}}
	pub := noopPublisher{}

	carts := service.NewCartService(memory.NewCartRepository(), pub, logger)
	wishlists := service.NewWishlistService(memory.NewWishlistRepository(), pub, logger)

	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data": {"order_id": "ord-1", "status": "initiated"}}`))
	}))
	t.Cleanup(orderAPI.Close)

	hcCfg := httpclient.DefaultConfig()
	hcCfg.MaxRetries = 0
	checkout := service.NewCheckoutService(carts, cat, httpclient.New(hcCfg), pub, logger, orderAPI.URL, false)

	catalogHandler := NewCatalogHandler(cat, logger)

	return NewRouter(catalogHandler, carts, wishlists, checkout, cat, RouterConfig{
		Logger:         logger,
		HealthHandler:  health.NewHandler(),
		TokenValidator: stubValidator,
		CORS:           middleware.DefaultCORSConfig(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

var guestHeaders = map[string]string{"X-Session-ID": "sess-1"}

// ============================================================
// Cart endpoints
// ============================================================

func TestCartEndpoints_GuestFlow(t *testing.T) {
	router := newTestRouter(t)

	// Empty cart for a new session.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart struct {
		Items    []json.RawMessage `json:"items"`
		Subtotal int64             `json:"subtotal"`
	}
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)

	// Add an item.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-1", Quantity: 2}, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var added struct {
		Items []struct {
			ID      string `json:"id"`
			Variant struct {
				Price int64 `json:"price"`
			} `json:"variant"`
			Quantity int `json:"quantity"`
		} `json:"items"`
		Subtotal int64 `json:"subtotal"`
	}
	decodeData(t, rec, &added)
	require.Len(t, added.Items, 1)
	assert.Equal(t, int64(3900), added.Items[0].Variant.Price, "guest pays the offer price")
	assert.Equal(t, int64(7800), added.Subtotal)

	// Update quantity, then remove.
	lineID := added.Items[0].ID
	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/"+lineID,
		UpdateQuantityRequest{Quantity: 1}, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantity_NegativeRemovesLine(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-1", Quantity: 2}, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var added struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeData(t, rec, &added)
	require.Len(t, added.Items, 1)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/"+added.Items[0].ID,
		UpdateQuantityRequest{Quantity: -5}, guestHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart struct {
		Items    []json.RawMessage `json:"items"`
		Subtotal int64             `json:"subtotal"`
	}
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
}

func TestCartAddItem_WholesalePrice(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{"Authorization": "Bearer wholesale-token"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-1", Quantity: 1}, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart struct {
		Subtotal int64 `json:"subtotal"`
	}
	decodeData(t, rec, &cart)
	assert.Equal(t, int64(3000), cart.Subtotal)
}

func TestCartAddItem_OutOfStockRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-sold-out", Quantity: 1}, guestHeaders)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "OUT_OF_STOCK")
}

func TestCartAddItem_UnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "nope", VariantID: "v-1", Quantity: 1}, guestHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_NoIdentityRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_UserAndGuestCartsAreSeparate(t *testing.T) {
	router := newTestRouter(t)
	userHeaders := map[string]string{"Authorization": "Bearer retail-token"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-1", Quantity: 1}, userHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, guestHeaders)
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

// ============================================================
// Wishlist endpoints
// ============================================================

func TestWishlistEndpoints(t *testing.T) {
	router := newTestRouter(t)
	userHeaders := map[string]string{"Authorization": "Bearer retail-token"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items",
		AddWishlistItemRequest{ProductID: "p-1"}, userHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist", nil, userHeaders)
	var wl struct {
		Items []struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
		} `json:"items"`
	}
	decodeData(t, rec, &wl)
	require.Len(t, wl.Items, 1)
	assert.Equal(t, "p-1", wl.Items[0].Product.ID)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/items/p-1", nil, userHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &wl)
	assert.Empty(t, wl.Items)
}

func TestWishlistRemove_GuestForbidden(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/items/p-1", nil, guestHeaders)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWishlistAdd_GuestAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items",
		AddWishlistItemRequest{ProductID: "p-1", VariantID: "v-1"}, guestHeaders)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================
// Catalog endpoints
// ============================================================

func TestGetProduct_PriceDependsOnRole(t *testing.T) {
	router := newTestRouter(t)

	var detail struct {
		Price domain.PriceQuote `json:"price"`
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/p-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &detail)
	assert.Equal(t, int64(3900), detail.Price.DisplayPrice)
	assert.Equal(t, domain.PriceLabelOffer, detail.Price.Label)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/p-1", nil,
		map[string]string{"Authorization": "Bearer wholesale-token"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &detail)
	assert.Equal(t, int64(3000), detail.Price.DisplayPrice)
	assert.Equal(t, domain.PriceLabelWholesale, detail.Price.Label)
}

func TestGetProduct_DefaultSelectionSkipsSoldOut(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/p-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Selection struct {
			Variant struct {
				ID string `json:"id"`
			} `json:"variant"`
		} `json:"selection"`
	}
	decodeData(t, rec, &detail)
	assert.Equal(t, "v-1", detail.Selection.Variant.ID)
}

func TestResolveSelection_ClampsQuantity(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet,
		"/api/v1/products/p-1/selection?color=Blue&size=M&quantity=99", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sel struct {
		Color    string `json:"color"`
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	}
	decodeData(t, rec, &sel)
	assert.Equal(t, "Blue", sel.Color)
	assert.Equal(t, "M", sel.Size)
	assert.Equal(t, 1, sel.Quantity, "quantity outside [1, stock] is a no-op")
}

func TestInvalidToken_Rejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil,
		map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================================
// Checkout endpoint
// ============================================================

func TestCheckout_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil, guestHeaders)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_HappyPath(t *testing.T) {
	router := newTestRouter(t)
	userHeaders := map[string]string{"Authorization": "Bearer retail-token"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: "p-1", VariantID: "v-1", Quantity: 1}, userHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil, userHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		OrderID string `json:"order_id"`
	}
	decodeData(t, rec, &result)
	assert.Equal(t, "ord-1", result.OrderID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, userHeaders)
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items, "checkout clears the cart")
}

func TestCheckout_EmptyCart(t *testing.T) {
	router := newTestRouter(t)
	userHeaders := map[string]string{"Authorization": "Bearer wholesale-token"}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil, userHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================
// Infrastructure endpoints
// ============================================================

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeEnforced(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
