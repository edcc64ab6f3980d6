package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// viewKeyPrefix namespaces cache keys that memoize a rendered
// path/view rather than a named data entry.
const viewKeyPrefix = "view:"

// ComputeFn produces the bytes to cache on a miss.
type ComputeFn func(ctx context.Context) ([]byte, error)

// TagCache is a read-through cache with tag-based group invalidation.
// Keys are registered under zero or more tags when written;
// invalidating a tag deletes every key written under it, forcing the
// next read to recompute. There is no locking against concurrent
// misses: two callers racing on a cold key both recompute and the
// last write wins.
type TagCache struct {
	store  Store
	logger *slog.Logger

	mu   sync.Mutex
	tags map[string]map[string]struct{} // tag -> set of keys
}

// NewTagCache creates a TagCache over the given backing store.
// If logger is nil, a default logger will be used.
func NewTagCache(store Store, logger *slog.Logger) *TagCache {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TagCache{
		store:  store,
		logger: logger.With(slog.String("component", "tag_cache")),
		tags:   make(map[string]map[string]struct{}),
	}
}

// GetOrCompute returns the cached value under key, computing and
// storing it for ttl on a miss. The key is registered under the given
// tags so InvalidateTag can drop it later.
//
// A failing compute propagates its error and caches nothing. A failing
// backend read or write degrades to computing fresh data; the cache
// must never turn a healthy data source into an error.
func (c *TagCache) GetOrCompute(
	ctx context.Context,
	key string,
	tags []string,
	ttl time.Duration,
	compute ComputeFn,
) ([]byte, error) {
	value, err := c.store.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		c.logger.Warn("cache read failed, recomputing",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.logger.Warn("cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return value, nil
	}

	c.register(key, tags)
	return value, nil
}

// InvalidateTag deletes every key registered under tag. The next read
// of any of those keys recomputes. Invalidation is not scoped by the
// parameters that populated a key: the whole group goes stale.
func (c *TagCache) InvalidateTag(ctx context.Context, tag string) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.tags[tag]))
	for key := range c.tags[tag] {
		keys = append(keys, key)
	}
	delete(c.tags, tag)
	c.mu.Unlock()

	var firstErr error
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.logger.Debug("cache tag invalidated",
		slog.String("tag", tag),
		slog.Int("keys", len(keys)))
	return firstErr
}

// InvalidatePath marks a single view/path entry stale.
func (c *TagCache) InvalidatePath(ctx context.Context, path string) error {
	if err := c.store.Delete(ctx, viewKeyPrefix+path); err != nil {
		return err
	}

	c.logger.Debug("cache path invalidated", slog.String("path", path))
	return nil
}

// register records key membership under each tag.
func (c *TagCache) register(key string, tags []string) {
	if len(tags) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		set, ok := c.tags[tag]
		if !ok {
			set = make(map[string]struct{})
			c.tags[tag] = set
		}
		set[key] = struct{}{}
	}
}
