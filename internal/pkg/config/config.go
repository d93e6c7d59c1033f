// Package config loads the service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT, default=3000"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the persistence backend: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	// AuditWorkers is the number of audit dispatcher shards.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000,http://localhost:5173"`

	// TrustedProxies lists the CIDRs of reverse proxies whose
	// X-Forwarded-For is believed. Empty means clients connect directly.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Auth      AuthConfig
	Admin     AdminConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AuthConfig struct {
	// JWTSecret signs every token. There is no fallback: startup fails
	// without it.
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL, default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

// AdminConfig seeds an elevated account at startup when Username is set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Enabled reports whether an administrator should be seeded.
func (a AdminConfig) Enabled() bool {
	return strings.TrimSpace(a.Username) != ""
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED, default=true"`
	Max     int           `env:"RATE_LIMIT_MAX, default=100"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be blank")
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Admin.Enabled() && (c.Admin.Email == "" || c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required with ADMIN_USERNAME")
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}
	return nil
}

// TrustedProxyNets returns TrustedProxies parsed. Load has already
// rejected malformed entries.
func (c *Config) TrustedProxyNets() []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, cidr := range c.TrustedProxies {
		if _, n, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
