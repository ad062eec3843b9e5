package reservoir

import (
	"math"

	"github.com/watt-toolkit/reservoir/pkg/diskstore"
)

// OpenOptions are bit flags controlling how a store is opened.
type OpenOptions uint8

const (
	// Default opens a store read/write without CRC checking.
	Default OpenOptions = 0
	// ReadOnly opens a store without accepting writes and without
	// repair-on-open.
	ReadOnly OpenOptions = 1 << iota
	// CheckCRC verifies checksums on every read.
	CheckCRC
)

// Has reports whether flag is set in o.
func (o OpenOptions) Has(flag OpenOptions) bool { return o&flag != 0 }

// EvictionPolicy selects how the mutable tier sheds data once it
// approaches its size cap.
type EvictionPolicy int

const (
	// EvictionLRU evicts expired, then least-recently-used, entries once
	// the mutable tier crosses its soft cap.
	EvictionLRU EvictionPolicy = iota
	// EvictionNone disables eviction: writes that would exceed the cap
	// are refused instead.
	EvictionNone
)

// String returns a short label for the eviction policy.
func (p EvictionPolicy) String() string {
	switch p {
	case EvictionLRU:
		return "LRU"
	case EvictionNone:
		return "None"
	default:
		return "Unknown"
	}
}

// CompressionType selects the mutable/protected stores' block compression.
type CompressionType = diskstore.CompressionType

// Unlimited is the max_disk_storage sentinel meaning "no cap": no Disk LRU
// Index is built and no eviction ever runs.
const Unlimited uint64 = math.MaxUint64

// Settings configures a Cache. All fields are optional; DefaultSettings
// supplies the documented defaults.
type Settings struct {
	// DiskPathMutable, if non-empty, is opened as the read/write tier.
	DiskPathMutable string
	// DiskPathProtected, if non-empty, is opened as the read-only
	// fallback tier consulted before the mutable tier on reads.
	DiskPathProtected string

	// MaxDiskStorage bounds the mutable tier's accounted size. Unlimited
	// disables the Disk LRU Index and all eviction.
	MaxDiskStorage uint64
	// MaxChunkSize bounds the mutable store's write buffer.
	MaxChunkSize uint64
	// EnforceImmediateFlush makes every mutable-store write fsync before
	// returning.
	EnforceImmediateFlush bool
	// MaxFileSize bounds a single SSTable file in the mutable store.
	MaxFileSize uint64
	// MaxMemoryCacheSize bounds the front-tier memory cache's total byte
	// cost; 0 disables the memory tier.
	MaxMemoryCacheSize uint64

	// OpenOptions controls read-only/CRC behavior for both tiers.
	OpenOptions OpenOptions
	// EvictionPolicy controls what happens when the mutable tier
	// approaches MaxDiskStorage.
	EvictionPolicy EvictionPolicy
	// Compression selects block compression for both tiers.
	Compression CompressionType
	// ExtendPermissions is passed through to the mutable store but has no
	// effect: created files and directories keep the store's default
	// permissions.
	ExtendPermissions bool
}

// defaultEvictionPortion is the maximum bytes evicted in a single pass,
// matching the legacy engine's default eviction chunk size.
const defaultEvictionPortion uint64 = 1 << 20 // 1 MiB

// protectedStoreMaxFileSize is the fixed SSTable size used for the
// protected tier, independent of Settings.MaxFileSize: the protected store
// is read-mostly and a large file size avoids spurious repair-on-open churn
// (see SPEC_FULL.md's original_source supplement).
const protectedStoreMaxFileSize = 32 << 20 // 32 MiB

// DefaultSettings returns the documented defaults: no disk paths configured,
// a 32 MiB mutable cap, 32 MiB write buffer, immediate flush on, 2 MiB
// SSTable files, a 1 MiB memory cache, default open options, LRU eviction,
// and default compression.
func DefaultSettings() Settings {
	return Settings{
		MaxDiskStorage:        32 << 20,
		MaxChunkSize:          32 << 20,
		EnforceImmediateFlush: true,
		MaxFileSize:           2 << 20,
		MaxMemoryCacheSize:    1 << 20,
		OpenOptions:           Default,
		EvictionPolicy:        EvictionLRU,
		Compression:           diskstore.CompressionDefault,
	}
}
