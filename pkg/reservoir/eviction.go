package reservoir

// Fixed eviction watermarks (see SPEC_FULL.md §6): eviction starts once the
// mutable tier's accounted size exceeds 90% of its cap and runs until it is
// back at or below 85%.
const (
	evictionTriggerNumerator = 9
	evictionTriggerDenom     = 10
	evictionStopNumerator    = 85
	evictionStopDenom        = 100
)

func (c *Cache) softCapExceeded() bool {
	if c.settings.MaxDiskStorage == Unlimited {
		return false
	}
	return c.mutableSize > c.settings.MaxDiskStorage*evictionTriggerNumerator/evictionTriggerDenom
}

func (c *Cache) underStopWatermark() bool {
	if c.settings.MaxDiskStorage == Unlimited {
		return true
	}
	return c.mutableSize <= c.settings.MaxDiskStorage*evictionStopNumerator/evictionStopDenom
}

// maybeEvictData runs eviction if the mutable tier is over its soft cap. It
// must be called with c.mu held. Eviction proceeds in chunks bounded by
// c.evictionPortion, running the expired pass before the LRU pass, and
// repeats both passes until the stop watermark is reached or nothing more
// can be evicted.
func (c *Cache) maybeEvictData() {
	if c.settings.EvictionPolicy != EvictionLRU || c.mutableLRU == nil {
		return
	}
	if !c.softCapExceeded() {
		return
	}

	for !c.underStopWatermark() {
		evicted := c.evictExpiredPortion()
		if c.underStopWatermark() {
			return
		}
		evicted += c.evictDataPortion()
		if evicted == 0 {
			return // nothing left to evict (e.g. all remaining keys protected)
		}
	}
}

// evictExpiredPortion walks indexed keys most-recently-used first (per
// SPEC_FULL.md §4.4, the "expired pass" order), evicting any whose expiry
// has passed, until evictionPortion bytes have been credited.
func (c *Cache) evictExpiredPortion() uint64 {
	return c.evictPass(c.mutableLRU.mruOrder(), true)
}

// evictDataPortion walks indexed keys least-recently-used first (the "LRU
// pass" order), evicting unconditionally until evictionPortion bytes have
// been credited.
func (c *Cache) evictDataPortion() uint64 {
	return c.evictPass(c.mutableLRU.lruOrder(), false)
}

func (c *Cache) evictPass(order []string, expiredOnly bool) uint64 {
	var credited uint64
	now := c.now()

	for _, key := range order {
		if credited >= c.evictionPortion {
			break
		}
		entry, ok := c.mutableLRU.Peek(key)
		if !ok {
			continue
		}
		if expiredOnly && !(entry.expiry != neverExpiry && entry.expiry <= now) {
			continue
		}

		c.mutable.Delete([]byte(key))
		if entry.expiry != neverExpiry {
			c.mutable.Delete([]byte(expiryKey(key)))
		}

		c.mutableLRU.Remove(key)
		if c.memory != nil {
			c.memory.Remove(key)
		}

		cost := uint64(len(key)) + entry.size
		if entry.expiry != neverExpiry {
			cost += companionCost(key)
		}
		if c.mutableSize >= cost {
			c.mutableSize -= cost
		} else {
			c.mutableSize = 0
		}
		credited += cost
	}
	return credited
}
