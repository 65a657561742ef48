// Package cache provides a typed TTL key-value store. A lookup returns an
// explicit hit/miss bool so that a cached empty collection is distinguishable
// from an absent entry. Expiry is checked lazily on read; there is no
// background eviction goroutine.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the expiry applied by Set.
const DefaultTTL = time.Hour

// Store is a typed, thread-safe TTL store. Values are immutable once set;
// concurrent readers are safe.
type Store[T any] struct {
	c   *gocache.Cache
	ttl time.Duration
}

// New creates a Store with the given default TTL. A non-positive ttl falls
// back to DefaultTTL. The backing cache runs no janitor; expired entries are
// evicted on the read that discovers them.
func New[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		c:   gocache.New(ttl, 0),
		ttl: ttl,
	}
}

// Set stores a value under key with the store's default TTL.
func (s *Store[T]) Set(key string, val T) {
	s.c.Set(key, val, s.ttl)
}

// SetTTL stores a value under key with an explicit TTL.
func (s *Store[T]) SetTTL(key string, val T, ttl time.Duration) {
	s.c.Set(key, val, ttl)
}

// Get returns the value for key and whether it was present and unexpired.
// An entry that has expired is evicted here.
func (s *Store[T]) Get(key string) (T, bool) {
	if v, ok := s.c.Get(key); ok {
		return v.(T), true
	}
	// Either absent or expired; drop the stale entry if one remains.
	s.c.Delete(key)
	var zero T
	return zero, false
}

// Clear evicts a single key.
func (s *Store[T]) Clear(key string) {
	s.c.Delete(key)
}

// Flush evicts every entry.
func (s *Store[T]) Flush() {
	s.c.Flush()
}

// Len returns the number of stored entries, including any expired entries
// that no read has evicted yet.
func (s *Store[T]) Len() int {
	return s.c.ItemCount()
}
