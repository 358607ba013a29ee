package config

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"Storefront/pkg/kit"
)

const (
	defaultAddr = ":3000"

	SourceSeed     = "seed"
	SourcePostgres = "postgres"

	ModeShared  = "shared"
	ModeSession = "session"

	minSecretLen = 32
)

// Config holds the storefront configuration, loadable from environment
// variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr       string `default:":3000" usage:"HTTP listen address"`
	TrustProxy bool   `default:"false" usage:"Take client IPs from X-Forwarded-For / X-Real-IP (only behind a proxy)" flag:"trust-proxy"`
	Log        LogConfig
	Catalog    CatalogConfig
	Cart       CartConfig
	Orders     OrdersConfig
	Metrics    MetricsConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Graceful   GracefulConfig
}

type LogConfig struct {
	Level       string `default:"info" usage:"Log level (debug, info, warn, error)"`
	Development bool   `default:"false" usage:"Human-readable console logs"`
}

type CatalogConfig struct {
	Source      string `default:"seed" usage:"Catalog source: seed or postgres"`
	DatabaseURL string `usage:"PostgreSQL URL for the postgres source (or DATABASE_URL)" flag:"database-url"`
}

// CartConfig selects between one process-wide cart and per-session carts.
type CartConfig struct {
	Mode          string        `default:"shared" usage:"Cart ownership: shared or session"`
	SessionSecret string        `usage:"HMAC secret for cart session tokens (session mode)" flag:"session-secret"`
	SessionTTL    time.Duration `default:"24h" usage:"Cart session token lifetime" flag:"session-ttl"`
	MaxSessions   int           `default:"10000" usage:"Carts held before the least recently used is dropped" flag:"max-sessions"`
}

// OrdersConfig bounds the in-memory confirmations; the oldest are dropped.
type OrdersConfig struct {
	MaxOrders int `default:"10000" usage:"Order confirmations held in memory" flag:"max-orders"`
}

type MetricsConfig struct {
	Enabled bool   `default:"true" usage:"Expose /metrics"`
	Token   string `usage:"Bearer token required by /metrics" flag:"metrics-token"`
}

// RateLimitConfig controls the per-client sliding window limiter on cart
// mutations. Max 0 disables it.
type RateLimitConfig struct {
	Max    int           `default:"120" usage:"Max mutating requests per window"`
	Window time.Duration `default:"1m" usage:"Rate limit window duration"`
}

type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials" flag:"cors-credentials"`
}

type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

func (c LogConfig) Kit() kit.LogConfig {
	return kit.LogConfig{Level: c.Level, Development: c.Development}
}

// Load reads configuration from defaults, YAML files, environment and flags,
// then applies platform defaults and validates the result.
func Load() (*Config, error) {
	return load(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"storefront.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

// LoadFromEnv reads defaults and environment only.
func LoadFromEnv() (*Config, error) {
	return load(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		SkipFiles: true,
		SkipFlags: true,
	})
}

func load(acfg aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, acfg).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the conventional DATABASE_URL and PORT
// variables onto the prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Catalog.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Catalog.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = ":" + port
	}
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceSeed:
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			return errors.New("postgres catalog source needs a database URL: set STOREFRONT_CATALOG_DATABASE_URL or DATABASE_URL")
		}
	default:
		return errors.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	switch c.Cart.Mode {
	case ModeShared:
	case ModeSession:
		if len(c.Cart.SessionSecret) < minSecretLen {
			return errors.Errorf("session cart mode needs a secret of at least %d bytes", minSecretLen)
		}
		if c.Cart.SessionTTL <= 0 {
			return errors.New("session ttl must be positive")
		}
		if c.Cart.MaxSessions < 1 {
			return errors.New("max sessions must be positive")
		}
	default:
		return errors.Errorf("unknown cart mode %q", c.Cart.Mode)
	}

	if c.Orders.MaxOrders < 1 {
		return errors.New("max orders must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, o := range c.CORS.Origins {
			if o == "*" {
				return errors.New(`cors credentials cannot be combined with the "*" origin: list origins explicitly`)
			}
		}
	}

	if c.RateLimit.Max > 0 && c.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	return nil
}
