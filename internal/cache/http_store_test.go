package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStore_GetSetDelete(t *testing.T) {
	s := NewHTTPStore(10, time.Minute)

	s.Set("https://api/videos?id=a", []byte("HTTP/1.1 200 OK"))

	got, ok := s.Get("https://api/videos?id=a")
	require.True(t, ok)
	assert.Equal(t, []byte("HTTP/1.1 200 OK"), got)

	s.Delete("https://api/videos?id=a")
	_, ok = s.Get("https://api/videos?id=a")
	assert.False(t, ok)
}

func TestHTTPStore_StaysAtCapacity(t *testing.T) {
	s := NewHTTPStore(100, time.Hour)

	for i := 0; i < 5000; i++ {
		s.Set(fmt.Sprintf("https://api/search?q=term-%d", i), []byte("response"))
	}

	stats := s.Stats()
	assert.Equal(t, 100, stats.Size)
	assert.Equal(t, 100, stats.Capacity)

	_, ok := s.Get("https://api/search?q=term-0")
	assert.False(t, ok, "earliest response evicted")
	_, ok = s.Get("https://api/search?q=term-4999")
	assert.True(t, ok, "latest response kept")
}

func TestHTTPStore_ExpiresResponses(t *testing.T) {
	clock := newFakeClock()
	s := NewHTTPStore(10, time.Minute, WithClock(clock.Now))

	s.Set("k", []byte("r"))
	clock.Advance(2 * time.Minute)

	_, ok := s.Get("k")
	assert.False(t, ok)
}
