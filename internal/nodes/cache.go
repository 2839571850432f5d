package nodes

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/JaimeStill/djedi/pkg/lifecycle"
)

// cacheEntry holds a published node or records that key has none.
type cacheEntry struct {
	node *Node
}

// Cache keeps published node lookups by storage key, including misses.
// Every key carries a generation that Invalidate advances, so a lookup that
// raced a write cannot store its stale result.
type Cache struct {
	items *ttlcache.Cache[string, cacheEntry]

	mu   sync.Mutex
	gens map[string]uint64
}

// NewCache creates a cache with the given TTL and capacity. Zero means no
// expiry or no capacity bound respectively.
func NewCache(ttl time.Duration, capacity int) *Cache {
	opts := []ttlcache.Option[string, cacheEntry]{
		ttlcache.WithTTL[string, cacheEntry](ttl),
		ttlcache.WithDisableTouchOnHit[string, cacheEntry](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, cacheEntry](uint64(capacity)))
	}
	return &Cache{
		items: ttlcache.New(opts...),
		gens:  make(map[string]uint64),
	}
}

// Lookup returns the cached entry for key. ok is false when key is not cached.
func (c *Cache) Lookup(key string) (node *Node, ok bool) {
	item := c.items.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value().node, true
}

// Generation returns the current generation of key. Read it before loading
// key from storage and pass it to Store.
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// Store caches node under key if key has not been invalidated since gen was
// read. A nil node records that key has no published version. It reports
// whether the entry was stored.
func (c *Cache) Store(key string, node *Node, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.items.Set(key, cacheEntry{node: node}, ttlcache.DefaultTTL)
	return true
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	c.items.Delete(key)
}

func (c *Cache) Len() int {
	return c.items.Len()
}

// Start runs expiry cleanup until lc shuts down.
func (c *Cache) Start(lc *lifecycle.Coordinator) {
	go c.items.Start()
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.items.Stop()
	})
}
