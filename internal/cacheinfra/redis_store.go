// Package cacheinfra holds the concrete cache backends behind the public
// cache.Store interface: a redis-backed store for deployments and a
// sturdyc-backed in-process store for development and tests.
package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss indicates the key was not present in the cache. Re-exported by the
// cache package.
var ErrMiss = errors.New("cache miss")

const pingTimeout = 5 * time.Second

// RedisStore implements the store contract on a redis client. Every entry is
// written with an explicit per-key TTL via SETEX semantics.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to redis and verifies the connection with a ping.
// A ping failure is returned as an error; callers treat it as fatal, the
// service does not start without its cache.
func NewRedisStore(url string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("redis cache initialized", zap.String("addr", opts.Addr))

	return &RedisStore{client: client, logger: logger}, nil
}

// Get returns the cached bytes for key, or ErrMiss when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		return val, nil
	}
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	s.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
	return nil, err
}

// SetEx stores value under key with the given time-to-live.
func (s *RedisStore) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error in redis.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("redis delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
