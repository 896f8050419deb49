package cache

import (
	"time"

	"github.com/gregjones/httpcache"
)

// HTTPStore backs an httpcache.Transport with a bounded Cache, so stored
// responses obey the same capacity, TTL and earliest-inserted eviction as
// every other cache entry.
type HTTPStore struct {
	c *Cache
}

var _ httpcache.Cache = (*HTTPStore)(nil)

// NewHTTPStore creates a store holding at most capacity responses
func NewHTTPStore(capacity int, ttl time.Duration, opts ...Option) *HTTPStore {
	return &HTTPStore{c: New(capacity, ttl, opts...)}
}

// Get returns the serialized response stored under key
func (s *HTTPStore) Get(key string) ([]byte, bool) {
	return Lookup[[]byte](s.c, key).Get()
}

// Set stores a serialized response
func (s *HTTPStore) Set(key string, resp []byte) {
	s.c.Set(key, resp)
}

// Delete removes the response stored under key
func (s *HTTPStore) Delete(key string) {
	s.c.Delete(key)
}

// Stats reports the store's size and capacity
func (s *HTTPStore) Stats() Stats {
	return s.c.Stats()
}
