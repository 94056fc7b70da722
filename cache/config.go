package cache

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/internal/cacheinfra"
)

// Backend selects the cache implementation.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config exposes cache configuration options for consumers of the package.
type Config struct {
	// Backend is BackendRedis or BackendMemory. Empty defaults to memory.
	Backend string

	// RedisURL is the connection URL for the redis backend.
	RedisURL string

	// TTL is the snapshot time-to-live. Zero defaults to DefaultTTL.
	TTL time.Duration

	// Capacity and NumShards size the in-memory backend.
	Capacity  int
	NumShards int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendMemory,
		TTL:       DefaultTTL,
		Capacity:  10000,
		NumShards: 64,
	}
}

// New constructs a Store for the configured backend. Constructing the redis
// backend pings the server; a failure there is returned to the caller, which
// treats it as fatal at startup (there is no degraded no-cache mode).
func New(cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case BackendRedis:
		return cacheinfra.NewRedisStore(cfg.RedisURL, logger)
	case BackendMemory, "":
		capacity := cfg.Capacity
		if capacity <= 0 {
			capacity = 10000
		}
		shards := cfg.NumShards
		if shards <= 0 {
			shards = 64
		}
		return cacheinfra.NewMemoryStore(capacity, shards, ttl)
	default:
		return nil, errors.New("unknown cache backend: " + cfg.Backend)
	}
}
