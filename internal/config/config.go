// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration. Every field has a development
// default; production deployments override through the environment.
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8000"`

	// DatabaseDriver selects the sql driver: sqlite3 or postgres.
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`

	// DatabaseURL is the driver-specific DSN.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:entitycache.db?_fk=1"`

	// CacheBackend selects the snapshot store: redis or memory.
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"redis"`

	// RedisURL is the redis connection URL when CacheBackend is redis.
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// CacheTTL bounds how long a stale snapshot can survive a lost
	// invalidation.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"300s"`

	// CacheCapacity and CacheShards size the in-memory backend.
	CacheCapacity int `env:"CACHE_CAPACITY" envDefault:"10000"`
	CacheShards   int `env:"CACHE_SHARDS" envDefault:"64"`

	// LogDir receives per-channel log files. Empty disables file output.
	LogDir string `env:"LOG_DIR" envDefault:""`

	// LogCleanupInterval is how often channel log files are truncated.
	LogCleanupInterval time.Duration `env:"LOG_CLEANUP_INTERVAL" envDefault:"30m"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CacheBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("config: unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive")
	}
	return nil
}
