package config

import (
	"fmt"

	pkgconfig "github.com/solemart/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Backend platform API (catalog and orders)
	BackendAPIURL string `env:"BACKEND_API_URL" envDefault:"http://localhost:8000"`

	// Auth
	JWTSecret string `env:"JWT_SECRET,notEmpty"`

	// Redis (cart and wishlist state)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 30 days); wishlists never expire.
	CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"720"`

	// Checkout behavior
	CheckoutRevalidateStock bool `env:"CHECKOUT_REVALIDATE_STOCK" envDefault:"false"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Circuit breaker for backend calls
	BreakerTimeoutSeconds int     `env:"BREAKER_TIMEOUT_SECONDS" envDefault:"30"`
	BreakerFailureRatio   float64 `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests    int     `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Rate limiting (0 disables)
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled  bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSample   float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof access (CIDR allowlist; empty blocks everything)
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTLHours < 0 {
		return fmt.Errorf("invalid cart TTL: %d", c.CartTTLHours)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be in (0, 1]: %f", c.BreakerFailureRatio)
	}
	return nil
}
