package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration, max int) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMemoryCache(ttl, max).WithClock(clock.Now), clock
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute, 10)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte(`{"a":1}`))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(5*time.Minute, 10)

	c.Set(ctx, "k", []byte("v"))

	clock.Advance(5*time.Minute - time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry younger than TTL must hit")

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry at TTL must miss")
	assert.Equal(t, 0, c.Len(), "expired entry is evicted lazily")
}

func TestMemoryCache_SetRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(time.Minute, 10)

	c.Set(ctx, "k", []byte("old"))
	clock.Advance(50 * time.Second)
	c.Set(ctx, "k", []byte("new"))
	clock.Advance(50 * time.Second)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestMemoryCache_BoundedSize(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute, 50)

	for i := 0; i < 120; i++ {
		c.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v"))
		assert.LessOrEqual(t, c.Len(), 50)
	}
	assert.Equal(t, 50, c.Len())

	// the newest entry always survives
	_, ok := c.Get(ctx, "key-119")
	assert.True(t, ok)
	// something old was evicted
	_, ok = c.Get(ctx, "key-0")
	assert.False(t, ok)
}

func TestMemoryCache_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(time.Minute, 10)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.InvalidateAll(ctx)

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Set(ctx, "a", []byte("3"))
	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("3"), got)
}

func TestMemoryCache_Defaults(t *testing.T) {
	c := NewMemoryCache(0, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.Equal(t, DefaultMaxEntries, c.maxEntries)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 20)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j%30)
				c.Set(ctx, key, []byte("v"))
				c.Get(ctx, key)
				if j%50 == 0 {
					c.InvalidateAll(ctx)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 20)
}

func TestRedisCache_NilClientIsMiss(t *testing.T) {
	ctx := context.Background()
	r := NewRedisCacheFromClient(nil, time.Minute, nil)

	r.Set(ctx, "k", []byte("v"))
	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	r.InvalidateAll(ctx)
	assert.NoError(t, r.Close())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "stories_1_5_all_recent", StoriesKey(1, 5, "All", "recent"))
	assert.Equal(t, "stories_1_5_all_recent", StoriesKey(1, 5, "", "recent"))
	assert.Equal(t, "stories_2_10_Fantasy_popular", StoriesKey(2, 10, "Fantasy", "popular"))
	assert.NotEqual(t, StoriesKey(1, 5, "All", "recent"), StoriesKey(1, 5, "all", "recent"))
	assert.NotEqual(t, StoriesKey(1, 5, "All", "recent"), StoriesKey(1, 5, "ALL", "recent"))
	assert.Equal(t, "search_dragon_1_5", SearchKey("  Dragon ", 1, 5))
	assert.Equal(t, "mustwatch_8", MustWatchKey(8))
}
