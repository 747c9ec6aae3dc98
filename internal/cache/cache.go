// Package cache holds the query cache used by the story feed.
//
// Entries are opaque JSON payloads keyed by the normalized query shape. The
// cache is best-effort: a miss, an expired entry and a backend fault all look
// the same to the caller, which falls through to the database.
package cache

import (
	"context"
	"time"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

// QueryCache is the read-through cache consulted by the feed queries.
type QueryCache interface {
	// Get returns the payload stored under key if it is younger than the TTL.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores payload under key, stamped with the current time.
	Set(ctx context.Context, key string, payload []byte)
	// InvalidateAll drops every entry.
	InvalidateAll(ctx context.Context)
}

// Noop never stores anything. Used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
func (Noop) InvalidateAll(context.Context)              {}

var _ QueryCache = Noop{}
