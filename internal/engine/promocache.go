package engine

import (
	"context"
	"sync"
	"time"
)

// promoEntry is one cached zone promo snapshot. done is closed once the
// compute finishes; waiters block on it instead of recomputing.
type promoEntry struct {
	done      chan struct{}
	promos    []ZonePromo
	err       error
	fetchedAt time.Time
}

// promoCache is a keyed TTL cache for zone promo snapshots. Concurrent
// callers for the same key share a single computation; failed computations
// are not retained, so the next caller retries.
type promoCache struct {
	mu      sync.Mutex
	entries map[string]*promoEntry
	ttl     time.Duration
	now     func() time.Time
}

func newPromoCache(ttl time.Duration) *promoCache {
	return &promoCache{
		entries: make(map[string]*promoEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached snapshot for key, computing it when absent or
// expired. The boolean reports a cache hit.
func (c *promoCache) Get(ctx context.Context, key string, compute func(context.Context) ([]ZonePromo, error)) ([]ZonePromo, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		select {
		case <-e.done:
			if e.err == nil && c.now().Sub(e.fetchedAt) < c.ttl {
				c.mu.Unlock()
				return e.promos, true, nil
			}
			// Expired or failed, fall through to recompute.
		default:
			// Another caller is computing; wait on its result.
			c.mu.Unlock()
			select {
			case <-e.done:
				return e.promos, true, e.err
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}
	}

	e := &promoEntry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.promos, e.err = compute(ctx)
	e.fetchedAt = c.now()
	close(e.done)

	if e.err != nil {
		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, e.err
	}
	return e.promos, false, nil
}

// Put installs a freshly computed snapshot, replacing any cached value.
func (c *promoCache) Put(key string, promos []ZonePromo) {
	e := &promoEntry{
		done:      make(chan struct{}),
		promos:    promos,
		fetchedAt: c.now(),
	}
	close(e.done)

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}
