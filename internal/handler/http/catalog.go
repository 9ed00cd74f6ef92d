package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/solemart/storefront/internal/catalog"
	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/httputil"
	"github.com/solemart/storefront/pkg/middleware"
	"github.com/solemart/storefront/pkg/pagination"
)

// CatalogReader is the slice of the catalog client the handlers need.
type CatalogReader interface {
	ListProducts(ctx context.Context, filter catalog.ListFilter, page pagination.Params) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListSliders(ctx context.Context) ([]catalog.Slider, error)
}

// CatalogHandler serves read-only catalog endpoints: listings, product
// detail with the caller's resolved price, and stateless variant selection.
type CatalogHandler struct {
	catalog CatalogReader
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(c CatalogReader, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, logger: logger}
}

// productListView is one product as rendered in a listing.
type productListView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Image        string            `json:"image"`
	Price        domain.PriceQuote `json:"price"`
	InStock      bool              `json:"in_stock"`
	AvgRating    float64           `json:"avg_rating"`
	TotalRatings int               `json:"total_ratings"`
}

// productDetailView is the full product page payload: everything needed to
// render without a second fetch.
type productDetailView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Images       []string          `json:"images"`
	Price        domain.PriceQuote `json:"price"`
	Colors       []string          `json:"colors"`
	Variants     []domain.Variant  `json:"variants"`
	Selection    domain.Selection  `json:"selection"`
	AvgRating    float64           `json:"avg_rating"`
	TotalRatings int               `json:"total_ratings"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	q := r.URL.Query()
	filter := catalog.ListFilter{
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		Featured:   q.Get("featured") == "true",
		BestSeller: q.Get("best_seller") == "true",
		NewArrival: q.Get("new_arrival") == "true",
	}

	products, total, err := h.catalog.ListProducts(r.Context(), filter, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	wholesale := middleware.IsWholesale(r.Context())
	views := make([]productListView, len(products))
	for i := range products {
		views[i] = h.listView(&products[i], wholesale)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(views, total, params),
	})
}

// GetProduct handles GET /api/v1/products/{productID}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	wholesale := middleware.IsWholesale(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: productDetailView{
			ID:           product.ID,
			Name:         product.Name,
			Description:  product.Description,
			Category:     product.Category,
			Images:       product.Images(),
			Price:        domain.ResolvePrice(product, wholesale),
			Colors:       product.Colors(),
			Variants:     product.Variants,
			Selection:    domain.NewSelection(product),
			AvgRating:    product.AvgRating,
			TotalRatings: product.TotalRatings,
		},
	})
}

// ResolveSelection handles GET /api/v1/products/{productID}/selection.
// It replays the caller's picker choices (color, size, quantity) against
// live product data and returns the resulting state, so the frontend never
// implements the stock-constrained selection rules itself.
func (h *CatalogHandler) ResolveSelection(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	selection := domain.NewSelection(product)
	q := r.URL.Query()
	if color := q.Get("color"); color != "" {
		selection.SelectColor(color)
	}
	if size := q.Get("size"); size != "" {
		selection.SelectSize(size)
	}
	if qty := q.Get("quantity"); qty != "" {
		want, err := strconv.Atoi(qty)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("quantity must be an integer"), h.logger)
			return
		}
		selection.ChangeQuantity(want - selection.Quantity)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: selection})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// ListSliders handles GET /api/v1/sliders
func (h *CatalogHandler) ListSliders(w http.ResponseWriter, r *http.Request) {
	sliders, err := h.catalog.ListSliders(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sliders})
}

func (h *CatalogHandler) listView(p *domain.Product, wholesale bool) productListView {
	image := domain.PlaceholderImage
	if imgs := p.Images(); len(imgs) > 0 {
		image = imgs[0]
	}

	inStock := false
	for _, v := range p.Variants {
		if v.Purchasable() {
			inStock = true
			break
		}
	}

	return productListView{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Image:        image,
		Price:        domain.ResolvePrice(p, wholesale),
		InStock:      inStock,
		AvgRating:    p.AvgRating,
		TotalRatings: p.TotalRatings,
	}
}
