package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to every key written by RedisStore.
const DefaultKeyPrefix = "quicklang:session:"

// RedisStore is a Redis-backed session-state store. It lets several web
// replicas share the same sessions.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       time.Duration // Entry lifetime (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: "quicklang:session:")
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
	}
}

// Get retrieves a value from Redis. Errors are reported as a miss; use
// Lookup to tell them apart.
func (s *RedisStore) Get(key string) (string, bool) {
	val, ok, _ := s.Lookup(key)
	return val, ok
}

// Lookup retrieves a value from Redis. A missing key is not an error.
func (s *RedisStore) Lookup(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores a value in Redis, refreshing its TTL.
func (s *RedisStore) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Set(ctx, s.keyPrefix+key, value, s.ttl).Err()
}

// Delete removes a value from Redis.
func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.client.Del(ctx, s.keyPrefix+key).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Verify RedisStore implements SessionStore
var _ SessionStore = (*RedisStore)(nil)
