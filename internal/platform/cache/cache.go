package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when the key is absent or its
// entry has expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a simple TTL-based cache abstraction that can be backed by
// memory, Redis, or any other KV store. Values are opaque bytes;
// callers own serialization.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the given TTL. A zero TTL means
	// the entry never expires by time (it can still be deleted).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
