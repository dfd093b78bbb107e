// Package dedupe provides idempotency tracking for ingested match records.
//
// The ingestion collaborator promises a deduplicated stream, but the HTTP
// ingest endpoint is retried by clients; the cache makes those retries
// harmless without a round trip to the record store.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen match keys to make ingestion idempotent.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it if
	// not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing a retry after a failed hand-off.
	Unrecord(ctx context.Context, key string)

	// Size returns the number of tracked keys.
	Size() int
}

// cache is a bounded FIFO idempotency cache backed by a fixed ring of keys.
// When full, the oldest slot is overwritten and its key forgotten; an evicted
// duplicate falls through to the record store's keyed upsert, so correctness
// never depends on cache capacity.
type cache struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
}

// Option applies a configuration option to the cache.
type Option func(*cache)

// WithMaxSize bounds the number of keys kept in memory.
func WithMaxSize(n int) Option {
	return func(c *cache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

const defaultMaxSize = 100_000

// New creates a bounded in-memory deduper.
func New(opts ...Option) Deduper {
	c := &cache{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	c.seen = make(map[string]struct{}, c.maxSize)
	c.ring = make([]string, 0, c.maxSize)
	return c
}

func (c *cache) SeenAndRecord(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[key]; ok {
		return true
	}
	if len(c.ring) < c.maxSize {
		c.ring = append(c.ring, key)
	} else {
		// Overwrite the oldest slot. A key unrecorded earlier leaves a stale
		// slot behind; the delete is then a no-op.
		delete(c.seen, c.ring[c.next])
		c.ring[c.next] = key
	}
	c.next = (c.next + 1) % c.maxSize
	c.seen[key] = struct{}{}
	return false
}

func (c *cache) Unrecord(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The ring slot stays; eviction treats it as stale once the key is gone
	// from the map.
	delete(c.seen, key)
}

func (c *cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
