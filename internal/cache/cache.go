// Package cache provides the process-wide ephemeral cache used in front of
// external providers and other expensive lookups. It is best-effort: a miss
// or an early eviction only costs latency.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/samber/mo"
)

const (
	// DefaultCapacity is the maximum number of entries held at once
	DefaultCapacity = 1000
	// DefaultTTL is applied by Set
	DefaultTTL = time.Hour
)

type entry struct {
	key        string
	value      any
	insertedAt time.Time
	ttl        time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) > e.ttl
}

// Stats describes the current cache state
type Stats struct {
	Size       int           `json:"size"`
	Capacity   int           `json:"capacity"`
	DefaultTTL time.Duration `json:"default_ttl"`
}

// Cache is a bounded key/value store with per-entry TTL. Expiry is lazy:
// expired entries are dropped when touched, and still count toward the
// capacity until then. When full, Set evicts the earliest inserted entry.
// A single mutex guards every operation.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front = earliest inserted
	capacity   int
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache. Non-positive arguments fall back to the defaults.
func New(capacity int, defaultTTL time.Duration, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c := &Cache{
		items:      make(map[string]*list.Element, capacity),
		order:      list.New(),
		capacity:   capacity,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key, or None when absent or expired
func (c *Cache) Get(key string) mo.Option[any] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.live(key)
	if !ok {
		return mo.None[any]()
	}
	return mo.Some(e.value)
}

// Has reports whether key holds a live entry, with the same expiry rule as Get
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.live(key)
	return ok
}

// Set stores value under key with the default TTL
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with the given TTL; a non-positive TTL
// means the default. Overwriting a key re-inserts it, so it becomes the
// latest entry.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	} else if len(c.items) >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	c.items[key] = c.order.PushBack(&entry{
		key:        key,
		value:      value,
		insertedAt: c.now(),
		ttl:        ttl,
	})
}

// Delete removes key; deleting a missing key is a no-op
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Stats returns size, capacity and default TTL
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:       len(c.items),
		Capacity:   c.capacity,
		DefaultTTL: c.defaultTTL,
	}
}

// live returns the entry for key, dropping it if expired. Caller holds mu.
func (c *Cache) live(key string) (*entry, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if e.expired(c.now()) {
		c.removeElement(el)
		return nil, false
	}
	return e, true
}

func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.items, e.key)
}

// Lookup is a typed Get. A value of another type is treated as a miss.
func Lookup[T any](c *Cache, key string) mo.Option[T] {
	v, ok := c.Get(key).Get()
	if !ok {
		return mo.None[T]()
	}
	typed, ok := v.(T)
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(typed)
}
