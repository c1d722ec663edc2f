// internal/domainmap/cache.go
//
// TTL cache in front of the domain_map repository.
//
// Context
// -------
// The resolver consults the domain mapping on every request for an
// unrecognised host, so lookups must not hit the control-plane DB each
// time.  Cache keeps positive and negative results for a fixed TTL and
// satisfies resolver.DomainMapper.  A DB error degrades to a miss (the
// request falls through to main-site behaviour) rather than failing the
// request; the error is logged once per lookup.
//
// Notes
// -----
// • Zero value is unusable; construct with NewCache.
// • Oxford commas, two spaces after periods.

package domainmap

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL bounds staleness after a mapping change.  Operators who
// re-point a domain wait at most this long for the edge to notice.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	slug     string // empty for a negative entry
	loadedAt time.Time
}

// Cache wraps a Repository with per-domain TTL caching.
type Cache struct {
	repo *Repository
	ttl  time.Duration

	mu   sync.RWMutex
	data map[string]cacheEntry
}

// NewCache returns a ready cache.  ttl <= 0 falls back to DefaultTTL.
func NewCache(repo *Repository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		repo: repo,
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

// Lookup implements resolver.DomainMapper.  A miss, an expired entry that
// re-misses, or a repository error all report (_, false).
func (c *Cache) Lookup(ctx context.Context, domain string) (string, bool) {
	c.mu.RLock()
	ent, ok := c.data[domain]
	fresh := ok && time.Since(ent.loadedAt) <= c.ttl
	c.mu.RUnlock()

	if fresh {
		return ent.slug, ent.slug != ""
	}

	slug, err := c.repo.SlugByDomain(ctx, domain)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		slug = "" // cache the negative result too
	default:
		zap.L().Warn("domain map lookup failed",
			zap.String("domain", domain), zap.Error(err))
		return "", false
	}

	c.mu.Lock()
	c.data[domain] = cacheEntry{slug: slug, loadedAt: time.Now()}
	c.mu.Unlock()

	return slug, slug != ""
}

// Invalidate drops one domain from the cache, forcing a reload on the
// next lookup.  Admin handlers call this after a mapping change.
func (c *Cache) Invalidate(domain string) {
	c.mu.Lock()
	delete(c.data, domain)
	c.mu.Unlock()
}
