package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore fails every operation; used to verify the cache
// degrades to recomputation rather than surfacing backend errors.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("backend down")
}

func TestTagCacheGetOrCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("computes once then serves from cache", func(t *testing.T) {
		c := NewTagCache(NewMemoryStore(), nil)

		calls := 0
		compute := func(context.Context) ([]byte, error) {
			calls++
			return []byte("payload"), nil
		}

		for i := 0; i < 3; i++ {
			got, err := c.GetOrCompute(ctx, "featured-stores", []string{"featured-stores"}, time.Minute, compute)
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), got)
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("compute error propagates and caches nothing", func(t *testing.T) {
		c := NewTagCache(NewMemoryStore(), nil)

		boom := errors.New("query failed")
		calls := 0
		compute := func(context.Context) ([]byte, error) {
			calls++
			return nil, boom
		}

		_, err := c.GetOrCompute(ctx, "k", nil, time.Minute, compute)
		assert.ErrorIs(t, err, boom)

		_, err = c.GetOrCompute(ctx, "k", nil, time.Minute, compute)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls, "failed computations must not be memoized")
	})

	t.Run("backend failure degrades to recompute", func(t *testing.T) {
		c := NewTagCache(failingStore{}, nil)

		calls := 0
		compute := func(context.Context) ([]byte, error) {
			calls++
			return []byte("fresh"), nil
		}

		got, err := c.GetOrCompute(ctx, "k", nil, time.Minute, compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), got)
		assert.Equal(t, 1, calls)
	})

	t.Run("ttl expiry forces recompute", func(t *testing.T) {
		mem := NewMemoryStore()
		now := time.Now()
		mem.now = func() time.Time { return now }
		c := NewTagCache(mem, nil)

		calls := 0
		compute := func(context.Context) ([]byte, error) {
			calls++
			return []byte("v"), nil
		}

		_, err := c.GetOrCompute(ctx, "k", nil, time.Second, compute)
		require.NoError(t, err)
		_, err = c.GetOrCompute(ctx, "k", nil, time.Second, compute)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)

		now = now.Add(2 * time.Second)
		_, err = c.GetOrCompute(ctx, "k", nil, time.Second, compute)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestTagCacheInvalidateTag(t *testing.T) {
	ctx := context.Background()

	c := NewTagCache(NewMemoryStore(), nil)

	computeCount := map[string]int{}
	computeFor := func(value string) ComputeFn {
		return func(context.Context) ([]byte, error) {
			computeCount[value]++
			return []byte(value), nil
		}
	}

	// Two owner slots under one tag, one featured slot under another.
	_, err := c.GetOrCompute(ctx, "user-stores:alice", []string{"user-stores"}, time.Hour, computeFor("alice"))
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, "user-stores:bob", []string{"user-stores"}, time.Hour, computeFor("bob"))
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, "featured-stores", []string{"featured-stores"}, time.Hour, computeFor("featured"))
	require.NoError(t, err)

	require.NoError(t, c.InvalidateTag(ctx, "user-stores"))

	// Both owner slots recompute; the featured slot is untouched.
	_, err = c.GetOrCompute(ctx, "user-stores:alice", []string{"user-stores"}, time.Hour, computeFor("alice"))
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, "user-stores:bob", []string{"user-stores"}, time.Hour, computeFor("bob"))
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, "featured-stores", []string{"featured-stores"}, time.Hour, computeFor("featured"))
	require.NoError(t, err)

	assert.Equal(t, 2, computeCount["alice"])
	assert.Equal(t, 2, computeCount["bob"])
	assert.Equal(t, 1, computeCount["featured"])

	assert.NoError(t, c.InvalidateTag(ctx, "no-such-tag"), "unknown tags invalidate nothing")
}

func TestTagCacheInvalidatePath(t *testing.T) {
	ctx := context.Background()

	mem := NewMemoryStore()
	c := NewTagCache(mem, nil)

	require.NoError(t, mem.Set(ctx, "view:/dashboard/stores", []byte("html"), time.Hour))
	require.NoError(t, c.InvalidatePath(ctx, "/dashboard/stores"))

	_, err := mem.Get(ctx, "view:/dashboard/stores")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewTagCache(t *testing.T) {
	assert.Panics(t, func() { NewTagCache(nil, nil) })
}
