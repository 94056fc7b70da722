package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

const evictionPercentage = 10

// MemoryStore implements the store contract on an in-process sturdyc client.
// sturdyc applies a single client-wide TTL, so the per-call TTL passed to
// SetEx is ignored; that matches this module's usage, where the snapshot TTL
// is a fixed constant anyway. The redis backend honours per-key TTLs.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

// NewMemoryStore creates an in-memory store with the given capacity, shard
// count, and entry TTL.
func NewMemoryStore(capacity, numShards int, ttl time.Duration) (*MemoryStore, error) {
	if capacity <= 0 {
		return nil, &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if numShards <= 0 {
		return nil, &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if ttl <= 0 {
		return nil, &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	client := sturdyc.New[[]byte](capacity, numShards, ttl, evictionPercentage)
	return &MemoryStore{client: client}, nil
}

// Get returns the cached bytes for key, or ErrMiss when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return val, nil
}

// SetEx stores value under key. The client-wide TTL applies.
func (s *MemoryStore) SetEx(_ context.Context, key string, _ time.Duration, value []byte) error {
	s.client.Set(key, value)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Close is a no-op for the in-process backend.
func (s *MemoryStore) Close() error {
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
