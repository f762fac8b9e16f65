// Package memo provides a small bounded cache for derived views.
package memo

import (
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// DefaultSize is the number of derived results kept per cache.
const DefaultSize = 8

// Key hashes v into a cache key. Values implementing fmt.Stringer
// (time.Time, decimal.Decimal) are hashed through their string form so
// structs with unexported state still produce distinct keys.
func Key(v any) (uint64, error) {
	return hashstructure.Hash(v, hashstructure.FormatV2, &hashstructure.HashOptions{
		UseStringer: true,
	})
}

// Cache is a least-recently-used cache of computed values keyed by a
// content hash of their inputs. It is safe for concurrent use.
type Cache[V any] struct {
	mu     sync.Mutex
	size   int
	order  []uint64 // most recent first
	values map[uint64]V
	hits   int
	misses int
}

// New returns a cache holding at most size entries.
func New[V any](size int) *Cache[V] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache[V]{
		size:   size,
		values: make(map[uint64]V, size),
	}
}

// Get returns the value cached under key, calling compute to produce it on
// a miss. compute runs with the cache unlocked.
func (c *Cache[V]) Get(key uint64, compute func() V) V {
	c.mu.Lock()
	if v, ok := c.values[key]; ok {
		c.hits++
		c.touch(key)
		c.mu.Unlock()
		return v
	}
	c.misses++
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; !ok && len(c.order) >= c.size {
		oldest := c.order[len(c.order)-1]
		c.order = c.order[:len(c.order)-1]
		delete(c.values, oldest)
	}
	c.values[key] = v
	c.touch(key)
	return v
}

// Len reports the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Stats reports cache hits and misses since creation.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache[V]) touch(key uint64) {
	for i, k := range c.order {
		if k == key {
			copy(c.order[1:i+1], c.order[:i])
			c.order[0] = key
			return
		}
	}
	c.order = append([]uint64{key}, c.order...)
}
