// Package diskstore is the uniform adapter over the embedded on-disk
// key-value engine. reservoir's cache engine never touches goleveldb
// directly; it only sees the narrow Store contract defined here, so a
// different embedded engine could be substituted without touching the
// engine package.
package diskstore

import (
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// OpenResult reports the outcome of Open.
type OpenResult int

const (
	// Fail means the store could not be opened or recovered.
	Fail OpenResult = iota
	// Success means the store opened cleanly.
	Success
	// Corrupted means the store exists but failed integrity checks (or,
	// for a read-only mutable store, an incomplete compaction was
	// detected) and repair was not attempted or not requested.
	Corrupted
	// Repaired means the store was corrupted but recovery succeeded.
	Repaired
)

// incompleteCompactionThreshold mirrors the legacy engine's level-0 file
// count check: at or above this many L0 files, compaction is considered
// unfinished.
const incompleteCompactionThreshold = 4

// CompressionType selects the on-disk block compression algorithm.
type CompressionType int

const (
	// CompressionDefault lets the backing engine choose (snappy).
	CompressionDefault CompressionType = iota
	// CompressionNone disables block compression.
	CompressionNone
)

// Settings configures a single Store.
type Settings struct {
	// Path is the on-disk directory for this store.
	Path string
	// MaxFileSize bounds the size of a single SSTable file.
	MaxFileSize int64
	// MaxChunkSize bounds the write buffer (memtable) size.
	MaxChunkSize int64
	// Sync forces every write to fsync before returning.
	Sync bool
	// Compression selects the block compression algorithm.
	Compression CompressionType
	// ReadOnly opens the store without accepting writes and disables
	// repair-on-open.
	ReadOnly bool
	// CheckCRC enables checksum verification on every read.
	CheckCRC bool
	// ExtendPermissions mirrors the legacy engine's extend_permissions
	// flag. It is accepted but has no effect: the store's files and
	// directory are created with goleveldb's default modes, not
	// 0666/0777.
	ExtendPermissions bool
}

// Store wraps a single goleveldb database, presenting the narrow contract
// the cache engine needs: get/put/delete, prefix iteration, batched writes,
// compaction, and approximate size.
type Store struct {
	db       *leveldb.DB
	settings Settings
	wo       *opt.WriteOptions
	ro       *opt.ReadOptions
}

func toLevelDBOptions(s Settings) *opt.Options {
	o := &opt.Options{
		WriteBuffer: int(s.MaxChunkSize),
	}
	if s.MaxFileSize > 0 {
		o.CompactionTableSize = int(s.MaxFileSize)
	}
	if s.Compression == CompressionNone {
		o.Compression = opt.NoCompression
	} else {
		o.Compression = opt.SnappyCompression
	}
	if s.ReadOnly {
		o.ReadOnly = true
	}
	// ExtendPermissions (relaxed 0666/0777 file modes) has no goleveldb
	// equivalent; accepted for config compatibility but has no effect.
	return o
}

// Open opens (and, for a writable store whose data is corrupted, attempts to
// repair) the store at settings.Path. Repair is never attempted when
// settings.ReadOnly is set, matching the rule that the protected tier never
// undergoes destructive repair.
func Open(settings Settings) (*Store, OpenResult) {
	o := toLevelDBOptions(settings)

	db, err := leveldb.OpenFile(settings.Path, o)
	if err == nil {
		s := newStore(db, settings)
		if settings.ReadOnly {
			if s.hasIncompleteCompaction() {
				db.Close()
				return nil, Corrupted
			}
		}
		return s, Success
	}

	if !errors.IsCorrupted(err) {
		return nil, Fail
	}
	if settings.ReadOnly {
		return nil, Corrupted
	}

	recovered, rerr := leveldb.RecoverFile(settings.Path, o)
	if rerr != nil {
		return nil, Fail
	}
	return newStore(recovered, settings), Repaired
}

func newStore(db *leveldb.DB, settings Settings) *Store {
	return &Store{
		db:       db,
		settings: settings,
		wo:       &opt.WriteOptions{Sync: settings.Sync},
		ro:       &opt.ReadOptions{Strict: strictFlag(settings.CheckCRC)},
	}
}

func strictFlag(checkCRC bool) opt.Strict {
	if checkCRC {
		return opt.StrictBlockChecksum
	}
	return 0
}

// hasIncompleteCompaction reports whether the store's level-0 file count is
// at or above incompleteCompactionThreshold, the signal the legacy engine
// used to detect an interrupted compaction on a read-only open.
func (s *Store) hasIncompleteCompaction() bool {
	n, ok := s.levelZeroFileCount()
	return ok && n >= incompleteCompactionThreshold
}

func (s *Store) levelZeroFileCount() (int, bool) {
	v, err := s.db.GetProperty("leveldb.num-files-at-level0")
	if err != nil {
		return 0, false
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear removes the store's on-disk directory entirely. The Store must be
// reopened with Open afterwards.
func (s *Store) Clear() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	return os.RemoveAll(s.settings.Path)
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key []byte) ([]byte, bool) {
	v, err := s.db.Get(key, s.ro)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Contains reports whether key is present, without copying its value.
func (s *Store) Contains(key []byte) bool {
	ok, err := s.db.Has(key, s.ro)
	return err == nil && ok
}

// Put writes key/value with the store's configured sync policy.
func (s *Store) Put(key, value []byte) error {
	return s.db.Put(key, value, s.wo)
}

// Delete removes key, returning the byte count of the removed record
// (len(key)+len(value)) on a best-effort basis: 0 if the key was absent.
func (s *Store) Delete(key []byte) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	if err := s.db.Delete(key, s.wo); err != nil {
		return 0
	}
	return len(key) + len(v)
}

// KeyFilter decides whether a key encountered during DeletePrefix should be
// kept (true) rather than deleted.
type KeyFilter func(key []byte) bool

// DeletePrefix deletes every key under prefix for which filter returns
// false, returning the total bytes removed.
func (s *Store) DeletePrefix(prefix []byte, filter KeyFilter) int {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), s.ro)
	defer iter.Release()

	batch := new(leveldb.Batch)
	removed := 0
	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		if filter != nil && filter(key) {
			continue
		}
		val := iter.Value()
		removed += len(key) + len(val)
		batch.Delete(key)
	}
	if batch.Len() > 0 {
		if err := s.db.Write(batch, s.wo); err != nil {
			return 0
		}
	}
	return removed
}

// Batch accumulates puts and deletes for atomic application via ApplyBatch.
type Batch struct {
	inner leveldb.Batch
}

// NewBatch returns an empty Batch.
func NewBatch() *Batch { return &Batch{} }

// Put stages a write.
func (b *Batch) Put(key, value []byte) { b.inner.Put(key, value) }

// Delete stages a removal.
func (b *Batch) Delete(key []byte) { b.inner.Delete(key) }

// Len reports the number of staged operations.
func (b *Batch) Len() int { return b.inner.Len() }

// ApplyBatch applies every staged operation atomically with respect to
// crash safety.
func (s *Store) ApplyBatch(b *Batch) error {
	return s.db.Write(&b.inner, s.wo)
}

// Iterator scans a key range.
type Iterator struct {
	inner iteratorWithRelease
}

type iteratorWithRelease interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// NewIterator returns an iterator over the full keyspace.
func (s *Store) NewIterator() *Iterator {
	return &Iterator{inner: s.db.NewIterator(nil, s.ro)}
}

// NewPrefixIterator returns an iterator restricted to keys under prefix.
func (s *Store) NewPrefixIterator(prefix []byte) *Iterator {
	return &Iterator{inner: s.db.NewIterator(util.BytesPrefix(prefix), s.ro)}
}

// Next advances the iterator; false means exhausted (check Error).
func (it *Iterator) Next() bool { return it.inner.Next() }

// Key returns the current key. Valid only after a true Next.
func (it *Iterator) Key() []byte { return it.inner.Key() }

// Value returns the current value. Valid only after a true Next.
func (it *Iterator) Value() []byte { return it.inner.Value() }

// Error returns any iteration error encountered.
func (it *Iterator) Error() error { return it.inner.Error() }

// Release must be called when the caller is done with the iterator.
func (it *Iterator) Release() { it.inner.Release() }

// Compact runs a blocking full-range compaction, making at most three
// attempts in total while the level-0 backlog has not drained — mirroring
// the legacy engine's speculative compaction retries.
func (s *Store) Compact() error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = s.db.CompactRange(util.Range{}); err != nil {
			return err
		}
		if !s.hasIncompleteCompaction() {
			return nil
		}
	}
	return nil
}

// Size approximates the byte size of the range [\0, 'z').
func (s *Store) Size() uint64 {
	sizes, err := s.db.SizeOf([]util.Range{{Start: []byte{0}, Limit: []byte("z")}})
	if err != nil {
		return 0
	}
	total := int64(0)
	for _, sz := range sizes {
		total += int64(sz)
	}
	if total < 0 {
		return 0
	}
	return uint64(total)
}
