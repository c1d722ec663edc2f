// internal/store/evictor.go
//
// Eviction loop for Cache.  Every EvictInterval it scans the map and
// removes:
//
//   - entries idle longer than idleTTL
//   - least-recently-used entries when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package store

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/craftflow/storefront/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// ----------------------------------------------------------------
		// Idle eviction pass
		// ----------------------------------------------------------------
		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > c.idleTTL {
				c.m.Delete(key)
				count--
				zap.L().Info("store evicted",
					zap.String("slug", key.(string)),
					zap.Duration("idle", idle.Truncate(time.Second)))
				metrics.StoreEvictTotal.Inc()
				metrics.ActiveStores.Dec()
			}
			return true
		})

		// ----------------------------------------------------------------
		// LRU eviction pass
		// ----------------------------------------------------------------
		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				slug string
				at   int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{slug: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-c.maxEntries && i < len(all); i++ {
				if _, ok := c.m.LoadAndDelete(all[i].slug); ok {
					zap.L().Info("store evicted (LRU pressure)",
						zap.String("slug", all[i].slug))
					metrics.StoreEvictTotal.Inc()
					metrics.ActiveStores.Dec()
				}
			}
		}
	}
}
