// Package memcache implements the front-tier, bounded in-memory cache used by
// reservoir's cache engine. Entries carry a per-key absolute expiry and a
// caller-defined cost; eviction is driven by total cost rather than entry
// count, so a single large value can evict several small ones.
package memcache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// Never is the sentinel absolute-expiry value meaning "does not expire".
const Never int64 = -1

// CostFunc computes the accounting cost of a value. The default for byte
// slices is ByteCost; for any other type EntryCost (a flat 1) is typical.
type CostFunc[V any] func(V) int64

// ByteCost treats a []byte value's cost as its length, with a floor of 1.
func ByteCost(b []byte) int64 {
	if len(b) == 0 {
		return 1
	}
	return int64(len(b))
}

// EntryCost assigns every value a flat cost of 1, turning the cache into a
// plain entry-count LRU.
func EntryCost[V any](V) int64 { return 1 }

type record[V any] struct {
	value  V
	expiry int64 // absolute unix seconds, or Never
	cost   int64
}

// Cache is a size-bounded, TTL-aware LRU over values of type V. It is not
// safe for concurrent use; callers that need concurrency safety (reservoir's
// engine included) must serialize access externally.
type Cache[V any] struct {
	lru      *lru.LRU[string, *record[V]]
	cost     CostFunc[V]
	maxCost  int64
	curCost  int64
	expiry   map[int64][]string // absolute expiry -> keys sharing it
	nowFunc  func() time.Time
}

// New creates a Cache with the given max total cost and cost function. A
// maxCost of 0 disables the memory tier entirely: every Put is a no-op and
// every Get misses. A nil CostFunc defaults to ByteCost when V is []byte
// and to EntryCost otherwise.
func New[V any](maxCost int64, cost CostFunc[V]) *Cache[V] {
	if cost == nil {
		if bc, ok := any(ByteCost).(func(V) int64); ok {
			cost = bc
		} else {
			cost = EntryCost[V]
		}
	}
	inner, _ := lru.NewLRU[string, *record[V]](maxInt, nil)
	return &Cache[V]{
		lru:     inner,
		cost:    cost,
		maxCost: maxCost,
		expiry:  make(map[int64][]string),
		nowFunc: time.Now,
	}
}

// maxInt disables simplelru's own count-based eviction; Cache drives
// eviction itself via cost accounting in evictUntilFits.
const maxInt = int(^uint(0) >> 1)

func (c *Cache[V]) now() int64 { return c.nowFunc().Unix() }

// SetClock overrides the cache's time source. Callers that inject a fake
// clock elsewhere (reservoir's engine, for deterministic tests) should
// thread the same clock here so TTL accounting agrees between tiers.
func (c *Cache[V]) SetClock(now func() time.Time) {
	if now != nil {
		c.nowFunc = now
	}
}

// Disabled reports whether the memory tier is a no-op (max cost <= 0).
func (c *Cache[V]) Disabled() bool { return c.maxCost <= 0 }

// Get returns the value for key, promoting it to most-recently-used. The
// second return is false on a miss or when the stored entry has expired (in
// which case the entry and its expiry-index bucket are purged).
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c.Disabled() {
		return zero, false
	}
	c.purgeExpired()

	r, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if r.expiry != Never && r.expiry <= c.now() {
		c.removeKey(key, r)
		return zero, false
	}
	return r.value, true
}

// Put inserts or replaces key's value, with absolute expiry expiryAbs
// (memcache.Never for no expiry) and the given cost. It evicts
// least-recently-used entries, oldest first, until the new entry fits within
// maxCost. If the memory tier is disabled, Put is a no-op.
func (c *Cache[V]) Put(key string, value V, expiryAbs int64) {
	if c.Disabled() {
		return
	}
	c.purgeExpired()

	cost := c.cost(value)

	if old, ok := c.lru.Peek(key); ok {
		c.curCost -= old.cost
		c.removeFromExpiryIndex(key, old.expiry)
	}

	r := &record[V]{value: value, expiry: expiryAbs, cost: cost}
	c.lru.Add(key, r)
	c.curCost += cost
	c.addToExpiryIndex(key, expiryAbs)

	c.evictUntilFits()
}

// Remove deletes key unconditionally. It is a no-op if key is absent.
func (c *Cache[V]) Remove(key string) {
	r, ok := c.lru.Peek(key)
	if !ok {
		return
	}
	c.removeKey(key, r)
}

// Clear empties the cache.
func (c *Cache[V]) Clear() {
	c.lru.Purge()
	c.curCost = 0
	c.expiry = make(map[int64][]string)
}

// Len returns the number of live entries, without purging expired ones.
func (c *Cache[V]) Len() int { return c.lru.Len() }

func (c *Cache[V]) evictUntilFits() {
	for c.curCost > c.maxCost {
		key, r, ok := c.lru.RemoveOldest()
		if !ok {
			return
		}
		c.curCost -= r.cost
		c.removeFromExpiryIndex(key, r.expiry)
	}
}

func (c *Cache[V]) removeKey(key string, r *record[V]) {
	c.lru.Remove(key)
	c.curCost -= r.cost
	c.removeFromExpiryIndex(key, r.expiry)
}

func (c *Cache[V]) addToExpiryIndex(key string, expiryAbs int64) {
	if expiryAbs == Never {
		return
	}
	c.expiry[expiryAbs] = append(c.expiry[expiryAbs], key)
}

func (c *Cache[V]) removeFromExpiryIndex(key string, expiryAbs int64) {
	if expiryAbs == Never {
		return
	}
	keys := c.expiry[expiryAbs]
	for i, k := range keys {
		if k == key {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(keys) == 0 {
		delete(c.expiry, expiryAbs)
	} else {
		c.expiry[expiryAbs] = keys
	}
}

// purgeExpired walks the expiry index for every bucket at or before now and
// drops those entries. Buckets are few in practice (one per distinct TTL
// deadline), so a full-map scan is cheap relative to a timer-driven sweep.
func (c *Cache[V]) purgeExpired() {
	if len(c.expiry) == 0 {
		return
	}
	now := c.now()
	var due []int64
	for exp := range c.expiry {
		if exp <= now {
			due = append(due, exp)
		}
	}
	for _, exp := range due {
		keys := c.expiry[exp]
		delete(c.expiry, exp)
		for _, key := range keys {
			if r, ok := c.lru.Peek(key); ok {
				c.lru.Remove(key)
				c.curCost -= r.cost
			}
		}
	}
}
