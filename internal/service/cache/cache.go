// Package cache provides the process-wide in-memory caches of the service.
//
// Entries carry their own TTL and are never returned once expired. Capacity is
// bounded per shard and the least recently used entry is evicted first.
package cache

import "time"

// Cache defines the interface for cache operations.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Invalidate(key string)
	Clear()
	Stop()
}

// Stats reports the state of a cache.
type Stats struct {
	Entries    int      `json:"keys"`
	Hits       int64    `json:"hits"`
	Misses     int64    `json:"misses"`
	Evictions  int64    `json:"evictions"`
	Capacity   int      `json:"capacity"`
	KeysSample []string `json:"keys_sample"`
}

// HitRate returns hits over total reads, or 0 when nothing was read.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheWithStats extends Cache with stats reporting.
type CacheWithStats interface {
	Cache
	Stats() Stats
}

// Clock returns the current time. Tests replace it to control expiry.
type Clock func() time.Time

// Option configures a ShardedCache.
type Option func(*options)

type options struct {
	name          string
	clock         Clock
	sweepInterval time.Duration
}

// WithName sets the label under which cache metrics are reported.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithClock overrides the time source used for expiry.
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithSweepInterval sets how often shards above 80% capacity purge expired entries.
// Zero disables the background sweep and leaves expiry to reads.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}
