package criterion

import (
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes compiled-criterion compute results keyed by a
// caller-supplied description of the (range, predicate) tuple set
// (spec §4.9: "Results may be cached by a key derived from the set
// of (range, predicate) tuples"). Reads of the shared, immutable
// FunctionRegistry may happen from multiple host-engine goroutines
// (spec §5); singleflight collapses concurrent requests for the same
// key into one computation, and blake2b, a cryptographic hash, gives
// a fixed-size, low-collision key.
type Cache struct {
	group singleflight.Group
	mu    sync.RWMutex
	data  map[[32]byte]any
}

// NewCache builds an empty Cache.
func NewCache() *Cache {
	return &Cache{data: make(map[[32]byte]any)}
}

func cacheKey(desc string) [32]byte {
	return blake2b.Sum256([]byte(desc))
}

// Get returns the cached value for desc, computing it via compute
// (at most once across concurrent callers) on a miss.
func (c *Cache) Get(desc string, compute func() any) any {
	key := cacheKey(desc)

	c.mu.RLock()
	if v, ok := c.data[key]; ok {
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(string(key[:]), func() (any, error) {
		c.mu.RLock()
		if v, ok := c.data[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()
		result := compute()
		c.mu.Lock()
		c.data[key] = result
		c.mu.Unlock()
		return result, nil
	})
	return v
}
