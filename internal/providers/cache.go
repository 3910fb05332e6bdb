package providers

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ResponseCache provides in-memory caching of normalized provider responses.
// Weather forecasts and injury reports change on the order of hours, so a
// short TTL avoids re-fetching them once per game in a slate.
//
// The underlying cache locks internally and the counters are atomic, so
// concurrent per-game fetch workers share one instance safely.
type ResponseCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResponseCache creates a provider response cache
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached value
func (rc *ResponseCache) Get(key string) (interface{}, bool) {
	value, found := rc.cache.Get(key)
	if found {
		rc.hitCount.Add(1)
	} else {
		rc.missCount.Add(1)
	}
	return value, found
}

// Set stores a value under the cache's TTL
func (rc *ResponseCache) Set(key string, value interface{}) {
	rc.cache.Set(key, value, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	rc.cache.Flush()
	rc.hitCount.Store(0)
	rc.missCount.Store(0)
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount.Load()
	misses = rc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}
