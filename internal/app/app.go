package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solemart/storefront/internal/catalog"
	"github.com/solemart/storefront/internal/config"
	"github.com/solemart/storefront/internal/event"
	handler "github.com/solemart/storefront/internal/handler/http"
	redisrepo "github.com/solemart/storefront/internal/repository/redis"
	"github.com/solemart/storefront/internal/service"
	"github.com/solemart/storefront/pkg/health"
	"github.com/solemart/storefront/pkg/httpclient"
	pkgkafka "github.com/solemart/storefront/pkg/kafka"
	"github.com/solemart/storefront/pkg/middleware"
	"github.com/solemart/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSample,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis client for cart and wishlist state.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer for domain events.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Backend API client with retries and a circuit breaker.
	backendClient := httpclient.New(httpclient.DefaultConfig())
	breakerCfg := httpclient.DefaultCircuitBreakerConfig("backend-api")
	breakerCfg.Timeout = time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	breakerCfg.MinRequests = uint32(cfg.BreakerMinRequests)
	protectedClient := httpclient.NewCircuitBreakerClient(backendClient, breakerCfg, logger).
		WithFallback(service.CircuitOpenFallback)

	catalogClient := catalog.NewClient(protectedClient, cfg.BackendAPIURL, logger)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTLHours) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb)
	eventProducer := event.NewProducer(producer)

	cartService := service.NewCartService(cartRepo, eventProducer, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, eventProducer, logger)
	checkoutService := service.NewCheckoutService(
		cartService,
		catalogClient,
		protectedClient,
		eventProducer,
		logger,
		cfg.BackendAPIURL,
		cfg.CheckoutRevalidateStock,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(
		handler.NewCatalogHandler(catalogClient, logger),
		cartService,
		wishlistService,
		checkoutService,
		catalogClient,
		handler.RouterConfig{
			Logger:         logger,
			HealthHandler:  healthHandler,
			TokenValidator: middleware.JWTValidator(cfg.JWTSecret),
			CORS:           corsCfg,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			PprofCIDRs:     cfg.PprofCIDRs,
		},
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
