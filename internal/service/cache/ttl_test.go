package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestTTLCache(capacity int, clock *fakeClock) *ttlCache {
	return newTTLCache(capacity, options{name: "test", clock: clock.Now})
}

func TestTTLCache_Get(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(c *ttlCache, clock *fakeClock)
		key           string
		expectedValue any
		expectedFound bool
	}{
		{
			name: "returns value when exists and not expired",
			setup: func(c *ttlCache, _ *fakeClock) {
				c.Set("fipe:tabelas", []int{1, 2}, time.Minute)
			},
			key:           "fipe:tabelas",
			expectedValue: []int{1, 2},
			expectedFound: true,
		},
		{
			name:          "returns false when key not found",
			setup:         func(_ *ttlCache, _ *fakeClock) {},
			key:           "fipe:missing",
			expectedFound: false,
		},
		{
			name: "returns value exactly at ttl",
			setup: func(c *ttlCache, clock *fakeClock) {
				c.Set("k", "v", time.Second)
				clock.Advance(time.Second)
			},
			key:           "k",
			expectedValue: "v",
			expectedFound: true,
		},
		{
			name: "returns false once ttl elapsed",
			setup: func(c *ttlCache, clock *fakeClock) {
				c.Set("k", "v", time.Second)
				clock.Advance(time.Second + time.Millisecond)
			},
			key:           "k",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			c := newTestTTLCache(10, clock)
			tt.setup(c, clock)

			value, found := c.Get(tt.key)

			assert.Equal(t, tt.expectedFound, found)
			if tt.expectedFound {
				assert.Equal(t, tt.expectedValue, value)
			} else {
				assert.Nil(t, value)
			}
		})
	}
}

func TestTTLCache_PerEntryTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	c.Set("price", "short", 30*time.Minute)
	c.Set("brands", "long", time.Hour)

	clock.Advance(45 * time.Minute)

	_, priceFound := c.Get("price")
	brands, brandsFound := c.Get("brands")

	assert.False(t, priceFound)
	assert.True(t, brandsFound)
	assert.Equal(t, "long", brands)
}

func TestTTLCache_SetResetsStoredAt(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	c.Set("k", 1, time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", 2, time.Minute)
	clock.Advance(50 * time.Second)

	value, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, 2, value)

	stats, _ := c.snapshot()
	assert.Equal(t, 1, stats.Entries, "should still have only one entry")
}

func TestTTLCache_Eviction(t *testing.T) {
	c := newTestTTLCache(3, newFakeClock())

	c.Set("1", 1, time.Minute)
	c.Set("2", 2, time.Minute)
	c.Set("3", 3, time.Minute)

	// Access 2 and 3 to make 1 the LRU
	c.Get("2")
	c.Get("3")

	c.Set("4", 4, time.Minute)

	_, ok1 := c.Get("1")
	_, ok2 := c.Get("2")
	_, ok3 := c.Get("3")
	_, ok4 := c.Get("4")

	assert.False(t, ok1, "entry 1 should be evicted")
	assert.True(t, ok2)
	assert.True(t, ok3)
	assert.True(t, ok4)

	stats, _ := c.snapshot()
	assert.Equal(t, int64(1), stats.Evictions)
}

func TestTTLCache_MoveToFront(t *testing.T) {
	c := newTestTTLCache(3, newFakeClock())

	c.Set("1", 1, time.Minute)
	c.Set("2", 2, time.Minute)
	c.Set("3", 3, time.Minute)

	// Access 1 so 2 becomes the LRU
	c.Get("1")
	c.Set("4", 4, time.Minute)

	_, ok1 := c.Get("1")
	_, ok2 := c.Get("2")

	assert.True(t, ok1, "entry 1 should still exist (was accessed)")
	assert.False(t, ok2, "entry 2 should be evicted (was LRU)")
}

func TestTTLCache_ExpiredEntryRemoval(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	c.Set("k", "v", time.Second)
	clock.Advance(2 * time.Second)

	_, found := c.Get("k")
	assert.False(t, found)

	stats, keys := c.snapshot()
	assert.Equal(t, 0, stats.Entries)
	assert.Empty(t, keys)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestTTLCache_Cleanup(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	c.Set("a", 1, time.Second)
	c.Set("b", 2, time.Second)
	c.Set("c", 3, time.Hour)
	clock.Advance(time.Minute)

	c.cleanup()

	assert.Equal(t, 1, c.lru.Len())
	_, found := c.Get("c")
	assert.True(t, found)
}

func TestTTLCache_Invalidate(t *testing.T) {
	c := newTestTTLCache(10, newFakeClock())
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Invalidate("a")
	c.Invalidate("missing")

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.True(t, okB)
}

func TestTTLCache_ClearResetsCounters(t *testing.T) {
	c := newTestTTLCache(10, newFakeClock())
	c.Set("a", 1, time.Minute)
	c.Get("a")
	c.Get("b")

	c.Clear()

	stats, keys := c.snapshot()
	assert.Equal(t, 0, stats.Entries)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Empty(t, keys)

	_, found := c.Get("a")
	assert.False(t, found)
}

func TestTTLCache_Stop(t *testing.T) {
	c := newTTLCache(10, options{name: "test", clock: time.Now, sweepInterval: time.Millisecond})

	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}

func TestTTLCache_Concurrency(t *testing.T) {
	c := newTestTTLCache(100, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				key := fmt.Sprintf("%d:%d", worker, j)
				c.Set(key, j, time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	stats, _ := c.snapshot()
	assert.Equal(t, 100, stats.Entries)
	assert.Equal(t, int64(100), stats.Hits)
}

func TestTTLCache_SetRefreshesExpiredEntry(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	c.Set("fipe:preco:001004-9:current", "stale", time.Second)
	clock.Advance(2 * time.Second)
	c.Set("fipe:preco:001004-9:current", "fresh", time.Hour)

	value, found := c.Get("fipe:preco:001004-9:current")
	assert.True(t, found, "a refreshed entry must not be dropped as expired")
	assert.Equal(t, "fresh", value)
}

func TestTTLCache_ConcurrentSameKey(t *testing.T) {
	clock := newFakeClock()
	c := newTestTTLCache(10, clock)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set("k", n*1000+j, time.Millisecond)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				clock.Advance(time.Millisecond)
				c.Get("k")
			}
		}()
	}
	wg.Wait()

	c.Set("k", "last", time.Hour)
	value, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, "last", value)
}
