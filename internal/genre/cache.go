package genre

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ResolveFunc computes the genres for one key. *Resolver.Resolve satisfies it.
type ResolveFunc func(ctx context.Context, artist, album string) []string

// pending is a write-once result shared by every caller of one key.
type pending struct {
	done   chan struct{}
	genres []string
}

// Cache deduplicates resolutions by (artist, album). The first caller for a
// key computes the result; every concurrent or later caller for the same key
// waits for and receives that same result. Entries are never evicted, so a
// Cache should live for one batch run.
//
// Cache is safe for concurrent use.
type Cache struct {
	resolve ResolveFunc
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[Key]*pending

	requests atomic.Int64
}

// NewCache creates a Cache that computes missing entries with resolve.
func NewCache(resolve ResolveFunc, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		resolve: resolve,
		logger:  logger,
		entries: make(map[Key]*pending),
	}
}

// Resolve returns the genres for (artist, album), computing them at most once
// per key. The returned error is non-nil only when ctx ends before the
// resolution completes; the shared entry is unaffected by that, even for the
// caller that started it.
func (c *Cache) Resolve(ctx context.Context, artist, album string) ([]string, error) {
	c.requests.Add(1)
	key := Key{Artist: artist, Album: album}

	c.mu.Lock()
	p, found := c.entries[key]
	if !found {
		p = &pending{done: make(chan struct{})}
		c.entries[key] = p
	}
	c.mu.Unlock()

	if !found {
		// The entry outlives this caller, so the caller's cancellation must
		// not cut the resolution short. Fetch timeouts still bound it.
		go c.compute(context.WithoutCancel(ctx), key, p)
	}

	select {
	case <-p.done:
		return p.genres, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// compute runs the resolution for key and completes p exactly once, even if
// the resolution panics.
func (c *Cache) compute(ctx context.Context, key Key, p *pending) {
	var genres []string
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("resolution panicked",
				"artist", key.Artist,
				"album", key.Album,
				"reason", "panic",
				"panic", r,
			)
			genres = nil
		}
		p.genres = genres
		close(p.done)
	}()

	genres = c.resolve(ctx, key.Artist, key.Album)
}

// Stats reports cache usage.
type Stats struct {
	// Requests is the number of Resolve calls.
	Requests int64
	// Keys is the number of distinct keys resolved or in flight.
	Keys int
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	keys := len(c.entries)
	c.mu.Unlock()
	return Stats{
		Requests: c.requests.Load(),
		Keys:     keys,
	}
}
