// internal/store/cache.go
//
// Lazily-loading store-configuration cache.
//
// Context
// -------
// Exactly one backend fetch happens per slug per process session, no
// matter how many requests arrive concurrently: the singleflight group
// collapses racing loads, and the sync.Map keeps the resolved entry for
// later requests.  Callers therefore observe exactly one of three
// states: blocked inside Get (loading), a terminal error (not found or
// maintenance), or a populated Config.
//
// Transient failures (network, backend 5xx) are returned but *not*
// cached, so the next request retries; terminal classifications are
// cached alongside successes.
package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/craftflow/storefront/internal/metrics"
)

// Static defaults.  Override via the New arguments if desired.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 1000
	EvictInterval = 5 * time.Minute
)

// Loader fetches one store's configuration.  Implementations map a
// missing or unpublished record to ErrNotFound; every other error is
// treated as transient.
type Loader interface {
	Load(ctx context.Context, slug string) (*Config, error)
}

// Cache lazily loads store configs, keeps them in a sync.Map, and evicts
// them on idle TTL or LRU pressure.
type Cache struct {
	loader      Loader
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache and starts the background evictor.
func New(loader Loader, idleTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		loader:     loader,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Config for slug, loading it on demand.  The error is
// ErrNotFound, ErrMaintenance, or a transient load failure.
func (c *Cache) Get(ctx context.Context, slug string) (*Config, error) {
	if v, ok := c.m.Load(slug); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.cfg, ent.err
	}

	v, err, _ := c.sfg.Do(slug, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(slug); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent, nil
		}

		cfg, err := c.loader.Load(ctx, slug)
		if err != nil && !errors.Is(err, ErrNotFound) {
			// Transient: surface without caching so the next hit retries.
			metrics.StoreLoadErrorsTotal.Inc()
			return nil, err
		}

		ent := &entry{lastSeen: time.Now().UnixNano()}
		switch {
		case err != nil:
			ent.err = ErrNotFound
		case !cfg.Published:
			ent.err = ErrNotFound
		case cfg.Maintenance:
			// Maintenance outranks publication only when published.
			ent.err = ErrMaintenance
		default:
			ent.cfg = cfg
		}

		c.m.Store(slug, ent)
		if ent.err != nil {
			metrics.StoreLoadErrorsTotal.Inc()
		} else {
			metrics.StoreLoadTotal.Inc()
		}
		metrics.ActiveStores.Inc()
		return ent, nil
	})
	if err != nil {
		return nil, err
	}
	ent := v.(*entry)
	return ent.cfg, ent.err
}

// Invalidate drops one slug so the next Get re-fetches.  Used by admin
// tooling after a config change; request handlers never call it.
func (c *Cache) Invalidate(slug string) {
	if _, ok := c.m.LoadAndDelete(slug); ok {
		metrics.ActiveStores.Dec()
	}
}

// Close stops the background evictor.
func (c *Cache) Close() {
	c.evictTicker.Stop()
}
