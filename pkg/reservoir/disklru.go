package reservoir

import (
	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// diskEntry is the value the Disk LRU Index stores per mutable-store key.
type diskEntry struct {
	size   uint64
	expiry int64 // absolute unix seconds, or neverExpiry
}

// diskLRU mirrors every eligible mutable-store key (§4.4): those that are
// neither expiry-companion records, the protected-set record, nor covered
// by the protected key set. It never auto-evicts on its own — capacity is
// fixed at math.MaxInt so Add/Get never trigger simplelru's internal
// eviction; the engine drives eviction explicitly via maybeEvictData.
type diskLRU struct {
	inner *lru.LRU[string, *diskEntry]
}

func newDiskLRU() *diskLRU {
	inner, _ := lru.NewLRU[string, *diskEntry](maxIntConst, nil)
	return &diskLRU{inner: inner}
}

const maxIntConst = int(^uint(0) >> 1)

// Touch promotes key to most-recently-used without altering its entry. It
// is a no-op if key is absent (e.g. a protected key, which is deliberately
// never indexed).
func (d *diskLRU) Touch(key string) {
	d.inner.Get(key)
}

// Peek returns key's entry without promoting it.
func (d *diskLRU) Peek(key string) (*diskEntry, bool) {
	return d.inner.Peek(key)
}

// Upsert inserts or updates key's entry, promoting it to
// most-recently-used.
func (d *diskLRU) Upsert(key string, size uint64, expiry int64) {
	e, ok := d.inner.Peek(key)
	if !ok {
		e = &diskEntry{}
	}
	if size > 0 || !ok {
		e.size = size
	}
	e.expiry = expiry
	d.inner.Add(key, e)
}

// SetSize updates only the size field of an existing (or newly created)
// entry, used while populating the index from a full store scan.
func (d *diskLRU) SetSize(key string, size uint64) {
	e, ok := d.inner.Peek(key)
	if !ok {
		e = &diskEntry{expiry: neverExpiry}
		d.inner.Add(key, e)
	}
	e.size = size
}

// SetExpiry updates only the expiry field of an existing (or newly created)
// entry.
func (d *diskLRU) SetExpiry(key string, expiry int64) {
	e, ok := d.inner.Peek(key)
	if !ok {
		e = &diskEntry{}
		d.inner.Add(key, e)
	}
	e.expiry = expiry
}

// Remove deletes key's entry, if present.
func (d *diskLRU) Remove(key string) {
	d.inner.Remove(key)
}

// RemovePrefix deletes every indexed key under prefix.
func (d *diskLRU) RemovePrefix(prefix string) {
	for _, k := range d.inner.Keys() {
		if hasPrefix(k, prefix) {
			d.inner.Remove(k)
		}
	}
}

// Len returns the number of indexed keys.
func (d *diskLRU) Len() int { return d.inner.Len() }

// Clear empties the index.
func (d *diskLRU) Clear() { d.inner.Purge() }

// lruOrder returns indexed keys least-recently-used first (the order the
// LRU eviction pass walks).
func (d *diskLRU) lruOrder() []string {
	return d.inner.Keys()
}

// mruOrder returns indexed keys most-recently-used first (the order the
// expired-entry eviction pass walks).
func (d *diskLRU) mruOrder() []string {
	keys := d.inner.Keys()
	reversed := make([]string, len(keys))
	for i, k := range keys {
		reversed[len(keys)-1-i] = k
	}
	return reversed
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
