package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/angkushsahu/pacifio-server/pkg/config"
)

// Config holds all configuration for the pacifio server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"HTTP_PORT" envDefault:"8000"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"pacifio"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"pacifio_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"pacifio"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"5"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Shopping bag
	BagTTL time.Duration `env:"BAG_TTL" envDefault:"720h"`

	// Checkout behavior. When strict, stock is reserved inside a single
	// transaction and checkout fails on insufficient stock.
	CheckoutStrict bool `env:"CHECKOUT_STRICT" envDefault:"false"`

	// Payment
	PaymentProvider   string `env:"PAYMENT_PROVIDER" envDefault:"mock"`
	PaymentGatewayURL string `env:"PAYMENT_GATEWAY_URL" envDefault:"http://localhost:8090"`
	PaymentCurrency   string `env:"PAYMENT_CURRENCY" envDefault:"INR"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load pacifio config: %w", err)
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
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.BagTTL <= 0 {
		return fmt.Errorf("BAG_TTL must be positive, got %s", c.BagTTL)
	}
	switch c.PaymentProvider {
	case "mock":
	case "gateway":
		if c.PaymentGatewayURL == "" {
			return fmt.Errorf("PAYMENT_GATEWAY_URL is required when PAYMENT_PROVIDER is gateway")
		}
		if _, err := url.ParseRequestURI(c.PaymentGatewayURL); err != nil {
			return fmt.Errorf("invalid PAYMENT_GATEWAY_URL %q: %w", c.PaymentGatewayURL, err)
		}
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q, expected mock or gateway", c.PaymentProvider)
	}
	if c.PaymentCurrency == "" {
		return fmt.Errorf("PAYMENT_CURRENCY is required")
	}
	return nil
}

// RedisAddr returns the Redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
