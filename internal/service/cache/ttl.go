package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/guttosm/fipe-service/internal/metrics"
)

// ttlCache is one shard: an LRU with per-entry TTL. Every access, reads
// included, runs under mu because a read both checks expiry and updates recency.
type ttlCache struct {
	mu        sync.Mutex
	name      string
	capacity  int
	clock     Clock
	lru       *simplelru.LRU[string, *entry]
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      int64
	misses    int64
	evictions int64
}

// entry is immutable once stored; Set replaces it instead of mutating it.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

func newTTLCache(capacity int, opts options) *ttlCache {
	// simplelru only fails for a non-positive size, which NewShardedCache rules out.
	l, err := simplelru.NewLRU[string, *entry](capacity, nil)
	if err != nil {
		panic(err)
	}
	c := &ttlCache{
		name:     opts.name,
		capacity: capacity,
		clock:    opts.clock,
		lru:      l,
		stopCh:   make(chan struct{}),
	}
	if opts.sweepInterval > 0 {
		go c.startCleanup(opts.sweepInterval)
	}
	return c
}

// Stop shuts down the background sweep. Safe to call more than once.
func (c *ttlCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Get returns a live value. An expired entry is removed and reported as a miss.
func (c *ttlCache) Get(key string) (any, bool) {
	c.mu.Lock()
	e, ok := c.lru.Peek(key)
	switch {
	case !ok:
		c.misses++
		c.mu.Unlock()
		metrics.RecordCacheOperation(c.name, "get", "miss")
		return nil, false
	case e.expired(c.clock()):
		c.lru.Remove(key)
		c.misses++
		c.mu.Unlock()
		metrics.RecordCacheOperation(c.name, "get", "expired")
		return nil, false
	}
	c.lru.Get(key)
	c.hits++
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.name, "get", "hit")
	return e.value, true
}

// Set stores or overwrites a value, resetting its storage time.
func (c *ttlCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	evicted := c.lru.Add(key, &entry{value: value, storedAt: c.clock(), ttl: ttl})
	if evicted {
		c.evictions++
	}
	c.mu.Unlock()

	if evicted {
		metrics.RecordCacheOperation(c.name, "evict", "capacity")
	}
	metrics.RecordCacheOperation(c.name, "set", "success")
}

// Invalidate removes a specific key from the cache.
func (c *ttlCache) Invalidate(key string) {
	c.mu.Lock()
	removed := c.lru.Remove(key)
	c.mu.Unlock()

	if removed {
		metrics.RecordCacheOperation(c.name, "invalidate", "success")
	}
}

// Clear removes all entries and resets counters.
func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// snapshot returns counters and the keys of live entries.
func (c *ttlCache) snapshot() (Stats, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	keys := make([]string, 0, c.lru.Len())
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && !e.expired(now) {
			keys = append(keys, k)
		}
	}

	return Stats{
		Entries:   len(keys),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Capacity:  c.capacity,
	}, keys
}

// startCleanup purges expired entries whenever the shard is more than 80% full.
func (c *ttlCache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			shouldCleanup := c.lru.Len() > (c.capacity * 80 / 100)
			c.mu.Unlock()

			if shouldCleanup {
				c.cleanup()
			}
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes all expired entries from the cache.
func (c *ttlCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && e.expired(now) {
			c.lru.Remove(k)
		}
	}
}
