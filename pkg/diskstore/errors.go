package diskstore

import (
	stderrors "errors"

	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrorCode classifies a store-level failure the way the legacy backing
// store's status codes were mapped, so callers above this package can
// translate to their own error taxonomy without depending on goleveldb.
type ErrorCode int

const (
	// Unknown covers any failure without a more specific classification.
	Unknown ErrorCode = iota
	// NotFound means the requested key does not exist.
	NotFound
	// InvalidArgument means a malformed key, range, or option was supplied.
	InvalidArgument
	// InternalFailure means the underlying engine reported a corruption
	// error during the operation; other I/O errors classify as Unknown.
	InternalFailure
)

// String returns a short label for the error code.
func (c ErrorCode) String() string {
	switch c {
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case InternalFailure:
		return "internal_failure"
	default:
		return "unknown"
	}
}

// Classify maps a raw error returned by Get/Put/ApplyBatch/Compact onto
// ErrorCode, mirroring the original adapter's own mapping from
// leveldb::Status onto client::ErrorCode.
func Classify(err error) ErrorCode {
	switch {
	case err == nil:
		return Unknown
	case stderrors.Is(err, ldberrors.ErrNotFound):
		return NotFound
	case ldberrors.IsCorrupted(err):
		return InternalFailure
	default:
		return Unknown
	}
}
