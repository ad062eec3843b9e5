package reservoir

import (
	"errors"
	"fmt"

	"github.com/watt-toolkit/reservoir/pkg/diskstore"
)

// Sentinel errors surfaced by Cache's operations.
var (
	// ErrNotReady indicates an operation was invoked before Open.
	ErrNotReady = errors.New("reservoir: cache is not open")

	// ErrOpenDiskPathFailure indicates a configured disk path was missing
	// and not creatable, or the backing store refused to open.
	ErrOpenDiskPathFailure = errors.New("reservoir: failed to open disk path")

	// ErrProtectedCacheCorrupted indicates the protected store was
	// corrupted and repair was disallowed, or an interrupted compaction
	// was detected on a read-only open.
	ErrProtectedCacheCorrupted = errors.New("reservoir: protected cache is corrupted")

	// ErrIOError indicates a store I/O failure.
	ErrIOError = errors.New("reservoir: I/O error")

	// ErrInternalFailure indicates an unexpected internal failure, such
	// as a batch application failure.
	ErrInternalFailure = errors.New("reservoir: internal failure")

	// ErrNotFound indicates the requested key is absent or expired.
	ErrNotFound = errors.New("reservoir: key not found")

	// ErrPreconditionFailed indicates an operation's precondition (e.g.
	// a size limit) was not met.
	ErrPreconditionFailed = errors.New("reservoir: precondition failed")

	// ErrBadRequest indicates a malformed request to the backing store.
	ErrBadRequest = errors.New("reservoir: bad request")

	// ErrInvalidArgument indicates an invalid argument was supplied to a
	// Cache method (e.g. an unknown CacheType passed to CloseTier).
	ErrInvalidArgument = errors.New("reservoir: invalid argument")
)

// StorageOpenResult is the closed result type returned by Open and
// OpenTier, mirroring the legacy engine's own tagged-variant open status
// instead of a generic error.
type StorageOpenResult int

const (
	// OpenSuccess means every configured tier opened cleanly.
	OpenSuccess StorageOpenResult = iota
	// OpenDiskPathFailure means a disk path was configured but could not
	// be opened.
	OpenDiskPathFailure
	// OpenProtectedCacheCorrupted means the protected tier was corrupted
	// and could not (or was not allowed to) be repaired.
	OpenProtectedCacheCorrupted
	// OpenNotReady is the not-ready result; Err maps it to ErrNotReady.
	// Open and OpenTier never return it.
	OpenNotReady
)

// String returns a short label for the open result.
func (r StorageOpenResult) String() string {
	switch r {
	case OpenSuccess:
		return "Success"
	case OpenDiskPathFailure:
		return "OpenDiskPathFailure"
	case OpenProtectedCacheCorrupted:
		return "ProtectedCacheCorrupted"
	case OpenNotReady:
		return "NotReady"
	default:
		return "Unknown"
	}
}

// Err returns the sentinel error corresponding to a non-success result, or
// nil for OpenSuccess.
func (r StorageOpenResult) Err() error {
	switch r {
	case OpenSuccess:
		return nil
	case OpenDiskPathFailure:
		return ErrOpenDiskPathFailure
	case OpenProtectedCacheCorrupted:
		return ErrProtectedCacheCorrupted
	case OpenNotReady:
		return ErrNotReady
	default:
		return ErrInternalFailure
	}
}

// CacheType names one of the engine's two on-disk tiers.
type CacheType int

const (
	// Mutable is the read/write primary tier.
	Mutable CacheType = iota
	// Protected is the optional read-only fallback tier.
	Protected
)

// String returns a short label for the tier.
func (t CacheType) String() string {
	switch t {
	case Mutable:
		return "mutable"
	case Protected:
		return "protected"
	default:
		return "unknown"
	}
}

// StoreError wraps a disk-tier failure with the tier, operation, and key
// involved, in the style of the teacher module's CacheError/DatabaseError
// wrapper types.
type StoreError struct {
	Tier CacheType
	Op   string
	Key  string
	Err  error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("reservoir: %s store error during %s (key: %s): %v", e.Tier, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("reservoir: %s store error during %s: %v", e.Tier, e.Op, e.Err)
}

// Unwrap returns the underlying error, so errors.Is/As work through it.
func (e *StoreError) Unwrap() error { return e.Err }

// sentinelForCode translates a diskstore.ErrorCode into this package's own
// sentinel error, keeping reservoir's public error surface independent of
// the backing store's classification.
func sentinelForCode(code diskstore.ErrorCode) error {
	switch code {
	case diskstore.NotFound:
		return ErrNotFound
	case diskstore.InvalidArgument:
		return ErrBadRequest
	case diskstore.InternalFailure:
		return ErrInternalFailure
	default:
		return ErrIOError
	}
}

// wrapStoreErr wraps a raw store failure into a *StoreError carrying the
// tier, operation, and key involved, classifying it into this package's
// sentinel taxonomy. Returns nil if err is nil.
func wrapStoreErr(tier CacheType, op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Tier: tier, Op: op, Key: key, Err: sentinelForCode(diskstore.Classify(err))}
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsNotReady returns true if err is or wraps ErrNotReady.
func IsNotReady(err error) bool { return errors.Is(err, ErrNotReady) }
