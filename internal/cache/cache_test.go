package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/program-catalog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k").Get()
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.True(t, c.Has("k"))
	assert.True(t, c.Get("missing").IsAbsent())
	assert.False(t, c.Has("missing"))
}

func TestCache_ExpiresLazily(t *testing.T) {
	c := New(10, time.Hour)

	c.SetWithTTL("k", "v", 50*time.Millisecond)
	got, ok := c.Get("k").Get()
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(60 * time.Millisecond)

	assert.True(t, c.Get("k").IsAbsent())
	assert.False(t, c.Has("k"))
}

func TestCache_ExpiredEntriesCountUntilTouched(t *testing.T) {
	clock := newFakeClock()
	c := New(10, time.Minute, WithClock(clock.Now))

	c.SetWithTTL("a", 1, time.Second)
	c.SetWithTTL("b", 2, time.Hour)
	clock.Advance(2 * time.Second)

	assert.Equal(t, 2, c.Stats().Size, "expired entry still held before access")

	assert.False(t, c.Has("a"))
	assert.Equal(t, 1, c.Stats().Size, "access removes the expired entry")
}

func TestCache_TTLBoundaryIsExclusive(t *testing.T) {
	clock := newFakeClock()
	c := New(10, time.Minute, WithClock(clock.Now))

	c.Set("k", "v")
	clock.Advance(time.Minute)
	assert.True(t, c.Has("k"), "entry is live at exactly ttl")

	clock.Advance(time.Nanosecond)
	assert.False(t, c.Has("k"))
}

func TestCache_EvictsEarliestInserted(t *testing.T) {
	const capacity = 5
	c := New(capacity, time.Hour)

	for i := 0; i < capacity; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	// reading does not change insertion order
	c.Get("k0")

	c.Set("extra", 99)

	assert.Equal(t, capacity, c.Stats().Size)
	assert.False(t, c.Has("k0"), "earliest entry evicted")
	for i := 1; i < capacity; i++ {
		assert.True(t, c.Has(fmt.Sprintf("k%d", i)))
	}
	assert.True(t, c.Has("extra"))
}

func TestCache_EvictionSkipsDeletedEntries(t *testing.T) {
	c := New(3, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Delete("a")

	c.Set("d", 4)
	assert.Equal(t, 3, c.Stats().Size, "no eviction needed after delete")

	c.Set("e", 5)
	assert.False(t, c.Has("b"), "b is now the earliest surviving entry")
	assert.True(t, c.Has("c"))
	assert.True(t, c.Has("d"))
	assert.True(t, c.Has("e"))
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Set("a", 10)

	assert.Equal(t, 2, c.Stats().Size)
	assert.True(t, c.Has("b"))
	got, _ := c.Get("a").Get()
	assert.Equal(t, 10, got)

	// a was re-inserted, so b is now the earliest
	c.Set("c", 3)
	assert.False(t, c.Has("b"))
	assert.True(t, c.Has("a"))
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New(10, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	c.Delete("never-set")
	assert.False(t, c.Has("a"))
	assert.Equal(t, 1, c.Stats().Size)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
	assert.False(t, c.Has("b"))
}

func TestCache_Stats(t *testing.T) {
	c := New(0, 0)
	stats := c.Stats()

	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, DefaultCapacity, stats.Capacity)
	assert.Equal(t, DefaultTTL, stats.DefaultTTL)
}

func TestLookup(t *testing.T) {
	c := New(10, time.Hour)
	c.Set("results", []models.SearchResult{{ExternalID: "abc"}})
	c.Set("number", 42)

	results, ok := Lookup[[]models.SearchResult](c, "results").Get()
	require.True(t, ok)
	assert.Equal(t, "abc", results[0].ExternalID)

	assert.True(t, Lookup[string](c, "number").IsAbsent(), "wrong type is a miss")
	assert.True(t, Lookup[int](c, "missing").IsAbsent())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "youtube:search:go:10", ProviderSearchKey(models.ProviderYouTube, "go", 10))
	assert.Equal(t, "youtube:details:abc", ProviderDetailsKey(models.ProviderYouTube, "abc"))
	assert.Equal(t, "filters:ar-SA", FiltersKey(models.LanguageArabic))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(100, time.Hour)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := fmt.Sprintf("k%d", (w*1000+i)%250)
				c.Set(key, i)
				c.Get(key)
				c.Has(key)
				if i%10 == 0 {
					c.Delete(key)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Size, 100)
}

func BenchmarkCache_SetGet(b *testing.B) {
	c := New(DefaultCapacity, DefaultTTL)
	keys := make([]string, 2*DefaultCapacity)
	for i := range keys {
		keys[i] = fmt.Sprintf("youtube:details:%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys[i%len(keys)]
		c.Set(k, i)
		c.Get(k)
	}
}
