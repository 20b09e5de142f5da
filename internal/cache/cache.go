// Package cache provides a thread-safe, bounded, TTL-based memoization
// cache of validation verdicts keyed by resource identity plus content
// fingerprint.
//
// The cache is an explicitly constructed component, never a package-level
// singleton, so tests and callers can build isolated instances. The single
// mutex is held only for the duration of map and list mutation, never
// across subprocess calls.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/mwynn/toolgate/internal/verdict"
)

// sweepThreshold is the occupancy fraction at which Put proactively evicts
// expired entries before considering LRU eviction.
const sweepThreshold = 0.9

type entry struct {
	key       string
	verdict   verdict.Verdict
	createdAt time.Time
}

// Cache is a bounded LRU cache with per-entry TTL expiry.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	ll       *list.List               // front = most recently used
	items    map[string]*list.Element // key -> element holding *entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Used by tests to simulate TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New builds a cache bounded at capacity entries, each expiring after ttl.
func New(capacity int, ttl time.Duration, opts ...Option) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached verdict for key. Expired entries are removed
// lazily here and never returned: an entry whose age has reached the TTL
// is a miss.
func (c *Cache) Get(key string) (verdict.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return verdict.Verdict{}, false
	}
	ent := el.Value.(*entry)
	if c.expired(ent) {
		c.remove(el)
		return verdict.Verdict{}, false
	}
	c.ll.MoveToFront(el)
	return ent.verdict, true
}

// Put stores a verdict under key, refreshing the entry if it exists.
// When occupancy crosses the sweep threshold, expired entries are evicted
// proactively; if the cache is still full, the least-recently-used entry
// is evicted.
func (c *Cache) Put(key string, v verdict.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.verdict = v
		ent.createdAt = c.now()
		c.ll.MoveToFront(el)
		return
	}

	if float64(c.ll.Len()) >= sweepThreshold*float64(c.capacity) {
		c.sweep()
	}
	for c.ll.Len() >= c.capacity {
		if oldest := c.ll.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	el := c.ll.PushFront(&entry{key: key, verdict: v, createdAt: c.now()})
	c.items[key] = el
}

// Len returns the current number of entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// expired reports whether ent's age has reached the TTL. Callers hold mu.
func (c *Cache) expired(ent *entry) bool {
	return c.ttl > 0 && c.now().Sub(ent.createdAt) >= c.ttl
}

// sweep removes all expired entries. Callers hold mu.
func (c *Cache) sweep() {
	for el := c.ll.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry)) {
			c.remove(el)
		}
		el = prev
	}
}

// remove deletes one element. Callers hold mu.
func (c *Cache) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
