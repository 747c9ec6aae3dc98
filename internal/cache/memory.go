package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key      string
	payload  []byte
	storedAt time.Time
}

// MemoryCache is a process-local QueryCache with a fixed TTL and a bounded
// number of entries. When the bound is exceeded the least recently used
// entries are evicted.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front = most recently used
	entries    map[string]*list.Element
	now        func() time.Time
}

// NewMemoryCache creates a cache; non-positive arguments fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		// lazy expiry
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.payload, true
}

func (c *MemoryCache) Set(_ context.Context, key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.payload = payload
		entry.storedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&memoryEntry{key: key, payload: payload, storedAt: c.now()})
	c.entries[key] = el

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
}

func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ QueryCache = (*MemoryCache)(nil)
