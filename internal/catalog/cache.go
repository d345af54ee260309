package catalog

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the freshness window for cached catalog reads.
const DefaultTTL = 5 * time.Minute

// Cache is the explicit TTL cache handed to catalog consumers. Catalog data
// changes rarely (imports, deck edits), so reads are served from memory for
// the configured window; mutations invalidate the affected keys.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewCache creates a cache with the given TTL. A non-positive TTL falls back
// to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Invalidate drops every cached entry at once.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

func (c *Cache) get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) set(key string, value any) {
	c.store.Set(key, value, c.ttl)
}

func (c *Cache) delete(keys ...string) {
	for _, key := range keys {
		c.store.Delete(key)
	}
}
