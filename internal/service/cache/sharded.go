package cache

import (
	"hash/fnv"
	"sort"
	"time"

	"github.com/guttosm/fipe-service/internal/metrics"
)

// keysSampleSize bounds the number of keys reported by Stats.
const keysSampleSize = 10

// ShardedCache distributes entries across multiple shards to reduce lock contention.
type ShardedCache struct {
	name      string
	shards    []*ttlCache
	shardMask uint32
	capacity  int
}

// NewShardedCache creates a cache holding at most capacity entries spread over
// numShards shards. numShards is rounded up to a power of 2.
func NewShardedCache(capacity, numShards int, opts ...Option) *ShardedCache {
	o := options{
		name:          "lookup",
		clock:         time.Now,
		sweepInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if numShards <= 0 {
		numShards = 16
	}
	n := 1
	for n < numShards {
		n *= 2
	}
	numShards = n

	if capacity < numShards {
		capacity = numShards
	}
	// Rounded up so uneven hashing never caps the cache below capacity; the
	// effective bound can exceed capacity by at most numShards-1.
	perShardCapacity := (capacity + numShards - 1) / numShards

	shards := make([]*ttlCache, numShards)
	for i := range shards {
		shards[i] = newTTLCache(perShardCapacity, o)
	}

	metrics.UpdateCacheMetrics(o.name, 0, perShardCapacity*numShards)

	return &ShardedCache{
		name:      o.name,
		shards:    shards,
		shardMask: uint32(numShards - 1),
		capacity:  perShardCapacity * numShards,
	}
}

func (sc *ShardedCache) getShard(key string) *ttlCache {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return sc.shards[h.Sum32()&sc.shardMask]
}

// Get retrieves a live value from the appropriate shard.
func (sc *ShardedCache) Get(key string) (any, bool) {
	return sc.getShard(key).Get(key)
}

// Set stores a value for ttl in the appropriate shard.
func (sc *ShardedCache) Set(key string, value any, ttl time.Duration) {
	sc.getShard(key).Set(key, value, ttl)
}

// Invalidate removes a key from the appropriate shard.
func (sc *ShardedCache) Invalidate(key string) {
	sc.getShard(key).Invalidate(key)
}

// Clear removes all entries from all shards.
func (sc *ShardedCache) Clear() {
	for _, shard := range sc.shards {
		shard.Clear()
	}
	metrics.RecordCacheOperation(sc.name, "clear", "success")
	metrics.UpdateCacheMetrics(sc.name, 0, sc.capacity)
}

// Stop gracefully shuts down all shards.
func (sc *ShardedCache) Stop() {
	for _, shard := range sc.shards {
		shard.Stop()
	}
}

// Stats aggregates counters from all shards. KeysSample holds up to ten live
// keys in lexical order.
func (sc *ShardedCache) Stats() Stats {
	var total Stats
	var keys []string
	for _, shard := range sc.shards {
		s, k := shard.snapshot()
		total.Entries += s.Entries
		total.Hits += s.Hits
		total.Misses += s.Misses
		total.Evictions += s.Evictions
		total.Capacity += s.Capacity
		keys = append(keys, k...)
	}

	sort.Strings(keys)
	if len(keys) > keysSampleSize {
		keys = keys[:keysSampleSize]
	}
	total.KeysSample = keys
	if total.KeysSample == nil {
		total.KeysSample = []string{}
	}

	metrics.UpdateCacheMetrics(sc.name, total.Entries, total.Capacity)
	return total
}
