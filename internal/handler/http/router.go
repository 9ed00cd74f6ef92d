package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solemart/storefront/internal/service"
	"github.com/solemart/storefront/pkg/health"
	"github.com/solemart/storefront/pkg/middleware"
)

// RouterConfig bundles everything the router needs beyond the services.
type RouterConfig struct {
	Logger         *slog.Logger
	HealthHandler  *health.Handler
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogHandler *CatalogHandler,
	carts *service.CartService,
	wishlists *service.WishlistService,
	checkout *service.CheckoutService,
	catalogGetter ProductGetter,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	cartHandler := NewCartHandler(carts, catalogGetter, cfg.Logger)
	wishlistHandler := NewWishlistHandler(wishlists, catalogGetter, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(checkout, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog reads: auth optional, wholesale tokens change pricing.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.TokenValidator))
			r.Use(middleware.CacheControl(60))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{productID}", catalogHandler.GetProduct)
			r.Get("/products/{productID}/selection", catalogHandler.ResolveSelection)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/sliders", catalogHandler.ListSliders)
		})

		// Cart: any owner, user or guest session.
		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.OptionalAuth(cfg.TokenValidator))
			r.Use(ResolveOwner)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{lineID}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{lineID}", cartHandler.RemoveItem)
		})

		// Wishlist: reads and adds for any owner; removal needs a real user.
		r.Route("/wishlist", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.OptionalAuth(cfg.TokenValidator))
			r.Use(ResolveOwner)

			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/items", wishlistHandler.AddItem)

			r.Group(func(r chi.Router) {
				r.Use(RequireUser)
				r.Delete("/items/{productID}", wishlistHandler.RemoveItem)
			})
		})

		// Checkout: authenticated users only.
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.OptionalAuth(cfg.TokenValidator))
			r.Use(ResolveOwner)
			r.Use(RequireUser)

			r.Post("/checkout", checkoutHandler.Initiate)
		})
	})

	return r
}
