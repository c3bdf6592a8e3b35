package complete

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tagcalc/internal/trace"
)

// DefaultStaleTime is how long a lookup result is reused.
const DefaultStaleTime = time.Minute

type cacheEntry struct {
	cands  []Candidate
	stored time.Time
}

// Cached wraps a source with a stale-time cache. Concurrent lookups of the
// same query share one call to the underlying source. Failures are not
// cached.
type Cached struct {
	src   Source
	ttl   time.Duration
	limit time.Duration
	disk  *DiskCache
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// CacheOption configures Cached.
type CacheOption func(*Cached)

// WithStaleTime overrides DefaultStaleTime.
func WithStaleTime(d time.Duration) CacheOption {
	return func(c *Cached) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithCallTimeout bounds one shared call to the underlying source
// (DefaultTimeout otherwise).
func WithCallTimeout(d time.Duration) CacheOption {
	return func(c *Cached) {
		if d > 0 {
			c.limit = d
		}
	}
}

// WithDiskCache persists entries across runs.
func WithDiskCache(d *DiskCache) CacheOption {
	return func(c *Cached) { c.disk = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cached) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCached wraps src.
func NewCached(src Source, opts ...CacheOption) *Cached {
	c := &Cached{
		src:     src,
		ttl:     DefaultStaleTime,
		limit:   DefaultTimeout,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup serves fresh entries from memory or disk and otherwise asks the
// underlying source.
func (c *Cached) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	if Blank(query) {
		return nil, nil
	}
	tr := trace.FromContext(ctx)
	if cands, ok := c.fresh(query); ok {
		trace.Point(tr, trace.ScopeDetail, "cache.hit", query)
		return cands, nil
	}

	// The shared call outlives any single caller: a superseded request
	// giving up must not fail the requests that joined it.
	ch := c.group.DoChan(query, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.limit)
		defer cancel()
		cands, err := c.src.Lookup(callCtx, query)
		if err != nil {
			return nil, err
		}
		c.store(query, cands)
		return cands, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			trace.Point(tr, trace.ScopeDetail, "cache.shared", query)
		}
		cands, _ := res.Val.([]Candidate)
		return cands, nil
	}
}

// Invalidate drops every in-memory entry.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

func (c *Cached) fresh(query string) ([]Candidate, bool) {
	now := c.now()
	c.mu.Lock()
	e, ok := c.entries[query]
	c.mu.Unlock()
	if ok && now.Sub(e.stored) < c.ttl {
		return e.cands, true
	}

	cands, stored, ok, err := c.disk.Get(query)
	if err != nil || !ok || now.Sub(stored) >= c.ttl {
		return nil, false
	}
	c.mu.Lock()
	c.entries[query] = cacheEntry{cands: cands, stored: stored}
	c.mu.Unlock()
	return cands, true
}

func (c *Cached) store(query string, cands []Candidate) {
	now := c.now()
	c.mu.Lock()
	c.entries[query] = cacheEntry{cands: cands, stored: now}
	c.mu.Unlock()
	// диск best effort: промах при чтении просто повторит запрос
	_ = c.disk.Put(query, now, cands)
}
