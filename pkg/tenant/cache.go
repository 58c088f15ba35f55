package tenant

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache is the read-through cache in front of the directory. Keys are
// addressing signal strings ("slug:acme", "domain:donate.acme.org").
type Cache interface {
	// Get retrieves a tenant from cache by key.
	Get(ctx context.Context, key string) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration)

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, key string)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of cached tenants.
const DefaultCacheSize = 1000

// memoryCache keeps tenants in an LRU list with per-entry expiry. Expired
// entries are dropped lazily on access and when room is needed; there is no
// background sweeper, so an idle cache costs nothing.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	maxSize int
}

type memoryEntry struct {
	key       string
	tenant    *Tenant
	expiresAt time.Time
}

// NewInMemoryCache creates an in-process cache with the default size limit.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-process cache holding at most
// maxSize tenants; the least recently used entry is evicted at capacity.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &memoryCache{
		entries: make(map[string]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.drop(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.tenant, true
}

func (c *memoryCache) Set(_ context.Context, key string, t *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.tenant = t
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evict()
	}
	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, tenant: t, expiresAt: expiresAt})
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.drop(el)
	}
}

// Close is a no-op; the cache holds no resources beyond its own memory.
func (c *memoryCache) Close() error {
	return nil
}

// evict frees one slot, preferring an already expired entry over the least
// recently used one. Caller holds the lock.
func (c *memoryCache) evict() {
	now := time.Now()
	for el := c.order.Back(); el != nil; el = el.Prev() {
		if now.After(el.Value.(*memoryEntry).expiresAt) {
			c.drop(el)
			return
		}
	}
	if el := c.order.Back(); el != nil {
		c.drop(el)
	}
}

func (c *memoryCache) drop(el *list.Element) {
	delete(c.entries, el.Value.(*memoryEntry).key)
	c.order.Remove(el)
}

// noOpCache disables caching. Useful for tests and for deployments where
// directory lookups must always hit the database.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (n *noOpCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	return nil, false
}

func (n *noOpCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
}

func (n *noOpCache) Delete(ctx context.Context, key string) {
}

func (n *noOpCache) Close() error {
	return nil
}
