package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store implementation backed by Redis, for deployments
// that want cache entries to survive process restarts or be shared
// across replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store over an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("client cannot be nil")
	}
	return &RedisStore{client: client}
}

// NewRedisStoreFromURL creates a Store by connecting to the Redis
// instance described by url (redis://...).
func NewRedisStoreFromURL(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts)), nil
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// Get implements Store.Get
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set implements Store.Set
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.Delete
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
