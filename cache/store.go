package cache

import (
	"context"
	"time"

	"github.com/verano-labs/go-entity-cache/internal/cacheinfra"
)

// ErrMiss indicates the key was not present in the cache. Any other error
// from a Store means the cache itself failed.
var ErrMiss = cacheinfra.ErrMiss

// DefaultTTL is the fixed time-to-live for cached entity snapshots. The TTL
// is the consistency backstop: if an invalidation is lost, a stale snapshot
// can survive at most this long.
const DefaultTTL = 300 * time.Second

// Store is the key-value cache consumed by the cache-aside accessor and the
// invalidation coordinator.
type Store interface {
	// Get returns the cached bytes for key, or ErrMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetEx stores value under key with the given time-to-live.
	SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend connection.
	Close() error
}
