// Package reservoir implements the tiered key-value cache engine: a bounded
// in-memory LRU (pkg/memcache) layered over one or two on-disk key-value
// stores (pkg/diskstore), with time-based expiry, LRU size-capped eviction,
// and a protected-key mechanism that exempts selected keys/prefixes from
// both eviction and removal.
package reservoir

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/watt-toolkit/reservoir/pkg/diskstore"
	"github.com/watt-toolkit/reservoir/pkg/memcache"
)

// Cache is the coordinator described in SPEC_FULL.md §4.5. It owns the
// memory cache, both disk tiers, the Disk LRU Index, and the protected key
// set, and serializes every public operation behind a single mutex — no
// suspension points occur while the mutex is held, matching the
// single-coarse-mutex concurrency model.
type Cache struct {
	mu     sync.Mutex
	logger zerolog.Logger

	settings Settings
	nowFunc  func() time.Time

	opened bool

	memory *memcache.Cache[[]byte]

	mutable      *diskstore.Store
	mutableOpen  bool
	mutableLRU   *diskLRU
	mutableSize  uint64
	mutableIndex bool // true iff an LRU index is being maintained

	protected     *diskstore.Store
	protectedOpen bool

	protectedKeys *protectedKeySet
	// protectedRecordSize is the key+value byte length last contributed to
	// mutableSize by the serialized protected-set record, so re-flushing it
	// can be accounted as a delta instead of double-counting its bytes.
	protectedRecordSize uint64

	evictionPortion uint64
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithLogger attaches a logger. The zero value is zerolog.Nop(), so logging
// is silent unless a logger is supplied — the same "disabled by default"
// posture the teacher module uses for its own metrics collection.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New constructs a Cache from settings. Open must be called before any
// other operation.
func New(settings Settings, opts ...Option) *Cache {
	c := &Cache{
		settings:        settings,
		nowFunc:         time.Now,
		protectedKeys:   newProtectedKeySet(),
		evictionPortion: defaultEvictionPortion,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEvictionPortion overrides the eviction chunk size (default 1 MiB). It
// exists for deterministic testing of small eviction batches, mirroring the
// legacy engine's own test-only setter.
func (c *Cache) SetEvictionPortion(bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictionPortion = bytes
}

func (c *Cache) now() int64 { return c.nowFunc().Unix() }

// Open brings up every configured tier: the memory cache (if
// MaxMemoryCacheSize>0), the mutable store (if DiskPathMutable is set,
// building the Disk LRU Index by full scan when eviction is LRU and
// MaxDiskStorage is finite, else seeding the size counter from Size()), and
// the protected store (if DiskPathProtected is set). On any tier failure,
// Open reports the specific StorageOpenResult and leaves the other tiers
// intact — a caller may retry just the failed tier with OpenTier.
func (c *Cache) Open() StorageOpenResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settings.MaxMemoryCacheSize > 0 {
		c.memory = memcache.New[[]byte](int64(c.settings.MaxMemoryCacheSize), memcache.ByteCost)
		// Indirect through c.nowFunc (rather than passing it by value) so a
		// clock later injected for testing keeps the memory tier's TTL
		// accounting in agreement with the engine's own.
		c.memory.SetClock(func() time.Time { return c.nowFunc() })
	}

	if c.settings.DiskPathMutable != "" {
		if result := c.openMutableLocked(); result != OpenSuccess {
			return result
		}
	}

	if c.settings.DiskPathProtected != "" {
		if result := c.openProtectedLocked(); result != OpenSuccess {
			return result
		}
	}

	c.opened = true
	return OpenSuccess
}

func (c *Cache) openMutableLocked() StorageOpenResult {
	store, result := diskstore.Open(diskstore.Settings{
		Path:              c.settings.DiskPathMutable,
		MaxFileSize:       int64(c.settings.MaxFileSize),
		MaxChunkSize:      int64(c.settings.MaxChunkSize),
		Sync:              c.settings.EnforceImmediateFlush,
		Compression:       c.settings.Compression,
		ReadOnly:          c.settings.OpenOptions.Has(ReadOnly),
		CheckCRC:          c.settings.OpenOptions.Has(CheckCRC),
		ExtendPermissions: c.settings.ExtendPermissions,
	})
	switch result {
	case diskstore.Success, diskstore.Repaired:
		// proceed
	case diskstore.Corrupted:
		c.logger.Error().Str("path", c.settings.DiskPathMutable).Msg("mutable store open detected corruption")
		return OpenDiskPathFailure
	default:
		c.logger.Error().Str("path", c.settings.DiskPathMutable).Msg("failed to open mutable store")
		return OpenDiskPathFailure
	}

	c.mutable = store
	c.mutableOpen = true

	// Load the persisted protected set before anything else consults
	// IsProtected: both the LRU-index scan below and the live size seed
	// need an accurate protected set to honor I2/I3 from the first read,
	// not just after the next Protect/Release call.
	c.loadProtectedSetLocked()

	buildIndex := c.settings.EvictionPolicy == EvictionLRU && c.settings.MaxDiskStorage != Unlimited
	if buildIndex {
		c.mutableLRU = newDiskLRU()
		c.mutableIndex = true
		c.scanMutableStoreLocked()
	} else {
		c.mutableIndex = false
		c.mutableSize = store.Size()
	}
	return OpenSuccess
}

// loadProtectedSetLocked reads the serialized protected-set record (if any)
// back into c.protectedKeys and records its on-disk byte footprint, so a
// later re-flush of the set can be accounted as a size delta instead of
// re-adding its bytes from scratch. It must run before any scan or read
// that calls protectedKeys.IsProtected.
func (c *Cache) loadProtectedSetLocked() {
	data, ok := c.mutable.Get([]byte(protectedSetKey))
	if !ok {
		c.protectedRecordSize = 0
		return
	}
	c.protectedKeys = Deserialize(data)
	c.protectedRecordSize = uint64(len(protectedSetKey) + len(data))
}

// scanMutableStoreLocked populates the Disk LRU Index (when one is
// maintained) and the size counter from a full scan of the mutable store,
// per §4.4's population rules.
func (c *Cache) scanMutableStoreLocked() {
	c.mutableSize = 0

	it := c.mutable.NewIterator()
	defer it.Release()

	for it.Next() {
		key := string(it.Key())
		val := it.Value()
		c.mutableSize += uint64(len(key) + len(val))

		if c.mutableLRU == nil {
			continue
		}

		if isInternalKey(key) {
			continue
		}
		if base, ok := isExpiryKey(key); ok {
			if c.protectedKeys.IsProtected(base) {
				continue
			}
			if abs, ok := parseExpiry(string(val)); ok {
				c.mutableLRU.SetExpiry(base, abs)
			}
			continue
		}
		if c.protectedKeys.IsProtected(key) {
			continue
		}
		c.mutableLRU.SetSize(key, uint64(len(val)))
	}
}

func (c *Cache) openProtectedLocked() StorageOpenResult {
	readOnly := true // the protected tier is never opened for writes.
	store, result := diskstore.Open(diskstore.Settings{
		Path:         c.settings.DiskPathProtected,
		MaxFileSize:  protectedStoreMaxFileSize,
		MaxChunkSize: int64(c.settings.MaxChunkSize),
		Sync:         c.settings.EnforceImmediateFlush,
		Compression:  c.settings.Compression,
		ReadOnly:     readOnly,
		CheckCRC:     c.settings.OpenOptions.Has(CheckCRC),
	})
	switch result {
	case diskstore.Success, diskstore.Repaired:
		c.protected = store
		c.protectedOpen = true
		return OpenSuccess
	case diskstore.Corrupted:
		c.logger.Error().Str("path", c.settings.DiskPathProtected).Msg("protected store corrupted")
		return OpenProtectedCacheCorrupted
	default:
		c.logger.Error().Str("path", c.settings.DiskPathProtected).Msg("failed to open protected store")
		return OpenDiskPathFailure
	}
}

// OpenTier opens a single tier lazily. The memory cache is cleared first so
// no stale negative lookups (cached from before the tier existed) are
// served afterward.
func (c *Cache) OpenTier(tier CacheType) StorageOpenResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memory != nil {
		c.memory.Clear()
	}

	switch tier {
	case Mutable:
		return c.openMutableLocked()
	case Protected:
		return c.openProtectedLocked()
	default:
		return OpenDiskPathFailure
	}
}

// Close serializes the protected set (if dirty) and drops every open tier
// handle.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Cache) closeLocked() error {
	c.flushProtectedSetLocked()

	var err error
	if c.mutableOpen {
		if e := c.mutable.Close(); e != nil {
			err = wrapStoreErr(Mutable, "close", "", e)
		}
		c.mutableOpen = false
	}
	if c.protectedOpen {
		if e := c.protected.Close(); e != nil {
			err = wrapStoreErr(Protected, "close", "", e)
		}
		c.protectedOpen = false
	}
	c.opened = false
	return err
}

// CloseTier closes a single tier, serializing the protected set first if
// the mutable tier (which holds the serialized record) is being closed.
func (c *Cache) CloseTier(tier CacheType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch tier {
	case Mutable:
		if !c.mutableOpen {
			return nil
		}
		c.flushProtectedSetLocked()
		err := c.mutable.Close()
		c.mutableOpen = false
		if err != nil {
			return wrapStoreErr(Mutable, "close", "", err)
		}
		return nil
	case Protected:
		if !c.protectedOpen {
			return nil
		}
		err := c.protected.Close()
		c.protectedOpen = false
		if err != nil {
			return wrapStoreErr(Protected, "close", "", err)
		}
		return nil
	default:
		return ErrInvalidArgument
	}
}

// flushProtectedSetLocked serializes the protected set to the mutable store
// if it is dirty, adjusting mutableSize by the delta between the record's
// new and previously-accounted size (I5) rather than leaving the counter to
// drift until the next full scan.
func (c *Cache) flushProtectedSetLocked() {
	if !c.mutableOpen || !c.protectedKeys.IsDirty() {
		return
	}
	data := c.protectedKeys.Serialize()
	c.mutable.Put([]byte(protectedSetKey), data)
	c.applyProtectedDelta(c.recordProtectedSetSizeLocked(data))
}

// recordProtectedSetSizeLocked updates protectedRecordSize to reflect data's
// on-disk footprint and returns the signed delta versus what was previously
// accounted for it.
func (c *Cache) recordProtectedSetSizeLocked(data []byte) int64 {
	newSize := uint64(len(protectedSetKey) + len(data))
	delta := int64(newSize) - int64(c.protectedRecordSize)
	c.protectedRecordSize = newSize
	return delta
}

// applyProtectedDelta adjusts mutableSize by a signed byte delta, floored at
// zero the same way every other size adjustment in this file is.
func (c *Cache) applyProtectedDelta(delta int64) {
	if delta == 0 {
		return
	}
	if delta > 0 {
		c.mutableSize += uint64(delta)
		return
	}
	d := uint64(-delta)
	if c.mutableSize >= d {
		c.mutableSize -= d
	} else {
		c.mutableSize = 0
	}
}

// Clear clears the memory cache, drops the Disk LRU Index, clears the
// mutable store (delete and recreate), resets counters, and reopens.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memory != nil {
		c.memory.Clear()
	}
	if c.mutableLRU != nil {
		c.mutableLRU.Clear()
	}
	c.mutableSize = 0
	c.protectedKeys.Clear()

	if !c.mutableOpen {
		return nil
	}
	if err := c.mutable.Clear(); err != nil {
		return err
	}
	c.mutableOpen = false

	if result := c.openMutableLocked(); result != OpenSuccess {
		return result.Err()
	}
	return nil
}

// Contains reports whether key is present and unexpired, without promoting
// it in the Disk LRU Index.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.protectedOpen {
		if _, ok := c.protected.Get([]byte(key)); ok {
			if c.remainingExpiry(key, Protected) > 0 || !c.hasExpiryRecord(Protected, key) {
				return true
			}
		}
	}

	if c.mutableIndex {
		if entry, ok := c.mutableLRU.Peek(key); ok {
			return entry.expiry == neverExpiry || entry.expiry > c.now()
		}
		if c.protectedKeys.IsProtected(key) {
			return c.mutable.Contains([]byte(key))
		}
		return false
	}

	if c.mutableOpen {
		if !c.mutable.Contains([]byte(key)) {
			return false
		}
		return c.mutableRemainingExpiry(key) > 0 || c.protectedKeys.IsProtected(key)
	}

	if c.memory != nil {
		_, ok := c.memory.Get(key)
		return ok
	}
	return false
}

// Get looks up key, checking the memory cache, then the protected store,
// then the mutable store, per §4.5's read path.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memory != nil {
		if v, ok := c.memory.Get(key); ok {
			if c.mutableIndex {
				c.mutableLRU.Touch(key)
			}
			return v, true
		}
	}

	if c.protectedOpen {
		if v, ok := c.protected.Get([]byte(key)); ok {
			remaining := c.remainingExpiry(key, Protected)
			if remaining > 0 || !c.hasExpiryRecord(Protected, key) {
				if c.memory != nil {
					c.memory.Put(key, v, neverExpiry)
				}
				return v, true
			}
		}
	}

	if c.mutableOpen {
		v, ok := c.mutable.Get([]byte(key))
		if !ok {
			return nil, false
		}
		protected := c.protectedKeys.IsProtected(key)
		remaining := c.mutableRemainingExpiry(key)

		if remaining > 0 || protected {
			if c.mutableIndex {
				c.mutableLRU.Touch(key)
			}
			if c.memory != nil {
				expiryAbs := neverExpiry
				if !protected {
					expiryAbs = c.absoluteExpiryFromMutable(key)
				}
				c.memory.Put(key, v, expiryAbs)
			}
			return v, true
		}

		// expired and not protected
		c.deleteMutableLocked(key)
		return nil, false
	}

	return nil, false
}

// Put stores value under key with a relative TTL (Never for no expiry), following §4.5's write path: memory cache, then a batched
// mutable-store write, running eviction first if the soft cap is exceeded
// and piggybacking a protected-set flush if dirty.
func (c *Cache) Put(key string, value []byte, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiryAbs := c.absoluteExpiry(ttl)
	protected := c.protectedKeys.IsProtected(key)

	if c.memory != nil {
		memExpiry := expiryAbs
		if protected {
			memExpiry = neverExpiry
		}
		c.memory.Put(key, value, memExpiry)
	}

	if !c.mutableOpen {
		return true
	}

	addedCost := uint64(len(key) + len(value))
	if expiryAbs != neverExpiry {
		addedCost += companionCost(key)
	}
	expectedSize := c.mutableSize + addedCost

	if c.settings.EvictionPolicy == EvictionNone && c.settings.MaxDiskStorage != Unlimited && expectedSize > c.settings.MaxDiskStorage {
		c.logger.Warn().Err(ErrPreconditionFailed).Str("key", key).Msg("put rejected: exceeds disk cap with eviction disabled")
		return false
	}

	batch := diskstore.NewBatch()
	batch.Put([]byte(key), value)
	if expiryAbs != neverExpiry {
		batch.Put([]byte(expiryKey(key)), []byte(formatExpiry(expiryAbs)))
	}

	// maybeEvictData runs against the pre-batch mutableSize/LRU and may
	// delete entries (and decrement mutableSize) before this put's own
	// batch is ever applied — its effect must survive below, not be
	// overwritten by a stale pre-eviction snapshot.
	c.maybeEvictData()

	protectedDirty := c.protectedKeys.IsDirty()
	var protectedData []byte
	if protectedDirty {
		protectedData = c.protectedKeys.Serialize()
		batch.Put([]byte(protectedSetKey), protectedData)
	}

	if err := c.mutable.ApplyBatch(batch); err != nil {
		c.logger.Error().Err(wrapStoreErr(Mutable, "put", key, err)).Msg("failed to apply put batch")
		return false
	}

	c.mutableSize += addedCost
	if protectedDirty {
		c.applyProtectedDelta(c.recordProtectedSetSizeLocked(protectedData))
	}
	if c.mutableIndex && !protected && !isInternalKey(key) {
		c.mutableLRU.Upsert(key, uint64(len(value)), expiryAbs)
	}
	return true
}

// Remove deletes key. A protected key refuses removal (logged at INFO) and
// returns false without error.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.protectedKeys.IsProtected(key) {
		c.logger.Info().Str("key", key).Msg("refusing to remove protected key")
		return false
	}

	if c.memory != nil {
		c.memory.Remove(key)
	}
	if c.mutableIndex {
		c.mutableLRU.Remove(key)
	}
	if c.mutableOpen {
		c.deleteMutableLocked(key)
	}
	return true
}

// RemoveKeysWithPrefix deletes every key under prefix that is not covered
// by the protected set.
func (c *Cache) RemoveKeysWithPrefix(prefix string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	filter := func(key []byte) bool { return c.protectedKeys.IsProtected(string(key)) }

	if c.memory != nil {
		c.memoryRemovePrefixLocked(prefix)
	}
	if c.mutableIndex {
		c.mutableLRURemovePrefixLocked(prefix)
	}
	if !c.mutableOpen {
		return true
	}

	removed := c.mutable.DeletePrefix([]byte(prefix), func(key []byte) bool {
		if base, ok := isExpiryKey(string(key)); ok {
			return filter([]byte(base))
		}
		return filter(key)
	})
	if c.mutableSize >= uint64(removed) {
		c.mutableSize -= uint64(removed)
	} else {
		c.mutableSize = 0
	}
	return true
}

func (c *Cache) memoryRemovePrefixLocked(prefix string) {
	// memcache has no native prefix scan and the engine keeps no separate
	// key index for it, so the whole memory tier is cleared: no removed
	// prefixed key can be served from memory afterwards, and every other
	// entry is re-read from disk on its next Get.
	c.memory.Clear()
}

func (c *Cache) mutableLRURemovePrefixLocked(prefix string) {
	for _, k := range c.mutableLRU.lruOrder() {
		if hasPrefix(k, prefix) && !c.protectedKeys.IsProtected(k) {
			c.mutableLRU.Remove(k)
		}
	}
}

// Protect adds keys to the protected set. Newly protected keys are evicted
// from the Disk LRU Index, and the memory cache is cleared entirely so no
// protected entry lingers with a stale non-sentinel expiry.
func (c *Cache) Protect(keys ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.protectedKeys.Protect(keys, func(key string) {
		if c.mutableIndex {
			c.mutableLRU.Remove(key)
			c.mutableLRU.RemovePrefix(key)
		}
	})
	if changed && c.memory != nil {
		c.memory.Clear()
	}
	return changed
}

// Release removes keys from the protected set. For each released prefix,
// the mutable store is rescanned so matching keys are re-inserted into the
// Disk LRU Index.
func (c *Cache) Release(keys ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.protectedKeys.Release(keys, func(key string) {
		if c.mutableIndex && c.mutableOpen {
			c.reindexPrefixLocked(key)
		}
	})
}

func (c *Cache) reindexPrefixLocked(prefix string) {
	it := c.mutable.NewPrefixIterator([]byte(prefix))
	defer it.Release()

	type pending struct {
		base   string
		size   int
		expiry int64
		hasExp bool
	}
	found := map[string]*pending{}

	for it.Next() {
		key := string(it.Key())
		if isInternalKey(key) {
			continue
		}
		if base, ok := isExpiryKey(key); ok {
			p := found[base]
			if p == nil {
				p = &pending{base: base}
				found[base] = p
			}
			if abs, ok := parseExpiry(string(it.Value())); ok {
				p.expiry = abs
				p.hasExp = true
			}
			continue
		}
		p := found[key]
		if p == nil {
			p = &pending{base: key}
			found[key] = p
		}
		p.size = len(it.Value())
	}

	for _, p := range found {
		if c.protectedKeys.IsProtected(p.base) {
			continue
		}
		expiry := int64(neverExpiry)
		if p.hasExp {
			expiry = p.expiry
		}
		c.mutableLRU.Upsert(p.base, uint64(p.size), expiry)
	}
}

// IsProtected reports whether key is covered by the protected set.
func (c *Cache) IsProtected(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protectedKeys.IsProtected(key)
}

// Size reports the tracked size of tier: the running byte counter for
// Mutable, or a live Size() call for Protected.
func (c *Cache) Size(tier CacheType) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch tier {
	case Mutable:
		return c.mutableSize
	case Protected:
		if !c.protectedOpen {
			return 0
		}
		return c.protected.Size()
	default:
		return 0
	}
}

// Resize changes the mutable tier's cap. Lowering it triggers immediate
// eviction followed by a compaction.
func (c *Cache) Resize(newMax uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lowering := newMax < c.settings.MaxDiskStorage
	c.settings.MaxDiskStorage = newMax
	if lowering {
		c.maybeEvictData()
		if c.mutableOpen {
			c.mutable.Compact()
		}
	}
}

// Promote touches key's Disk LRU Index entry. It is a no-op for missing or
// protected keys (protected keys are never indexed).
func (c *Cache) Promote(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutableIndex {
		c.mutableLRU.Touch(key)
	}
}

// Compact delegates to the mutable store's blocking full-range compaction.
func (c *Cache) Compact() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mutableOpen {
		return ErrNotReady
	}
	if err := c.mutable.Compact(); err != nil {
		return wrapStoreErr(Mutable, "compact", "", err)
	}
	return nil
}

// deleteMutableLocked deletes key and, if present, its expiry companion
// record from the mutable store in one logical unit (I1), adjusting the
// running size counter and the Disk LRU Index.
func (c *Cache) deleteMutableLocked(key string) {
	removed := c.mutable.Delete([]byte(key))
	if removed == 0 {
		return
	}
	cost := uint64(removed)
	if n := c.mutable.Delete([]byte(expiryKey(key))); n > 0 {
		cost += uint64(n)
	}
	if c.mutableIndex {
		c.mutableLRU.Remove(key)
	}
	if c.mutableSize >= cost {
		c.mutableSize -= cost
	} else {
		c.mutableSize = 0
	}
}

func (c *Cache) absoluteExpiry(ttl time.Duration) int64 {
	if ttl == Never {
		return neverExpiry
	}
	return c.now() + int64(ttl/time.Second)
}

func (c *Cache) mutableRemainingExpiry(key string) int64 {
	v, ok := c.mutable.Get([]byte(expiryKey(key)))
	if !ok {
		return 1 // no companion record: treated as never-expiring (remaining > 0)
	}
	abs, ok := parseExpiry(string(v))
	if !ok {
		return 1
	}
	return abs - c.now()
}

func (c *Cache) absoluteExpiryFromMutable(key string) int64 {
	v, ok := c.mutable.Get([]byte(expiryKey(key)))
	if !ok {
		return neverExpiry
	}
	abs, ok := parseExpiry(string(v))
	if !ok {
		return neverExpiry
	}
	return abs
}

func (c *Cache) remainingExpiry(key string, tier CacheType) int64 {
	store := c.storeFor(tier)
	v, ok := store.Get([]byte(expiryKey(key)))
	if !ok {
		return 1
	}
	abs, ok := parseExpiry(string(v))
	if !ok {
		return 1
	}
	return abs - c.now()
}

func (c *Cache) hasExpiryRecord(tier CacheType, key string) bool {
	_, ok := c.storeFor(tier).Get([]byte(expiryKey(key)))
	return ok
}

func (c *Cache) storeFor(tier CacheType) *diskstore.Store {
	if tier == Protected {
		return c.protected
	}
	return c.mutable
}
