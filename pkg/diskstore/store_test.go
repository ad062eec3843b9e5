package diskstore

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, result := Open(Settings{
		Path:         filepath.Join(dir, "db"),
		MaxChunkSize: 4 << 20,
		Sync:         false,
	})
	if result != Success {
		t.Fatalf("Open() = %v, want Success", result)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	v, ok := s.Get([]byte("a"))
	if !ok {
		t.Fatalf("expected key a present")
	}
	if string(v) != "1" {
		t.Fatalf("got %q, want %q", v, "1")
	}

	if !s.Contains([]byte("a")) {
		t.Fatalf("expected Contains(a) = true")
	}
	if s.Contains([]byte("missing")) {
		t.Fatalf("expected Contains(missing) = false")
	}
}

func TestStoreDelete(t *testing.T) {
	s := openTestStore(t)
	s.Put([]byte("a"), []byte("12345"))

	n := s.Delete([]byte("a"))
	if n != len("a")+len("12345") {
		t.Fatalf("Delete returned %d bytes, want %d", n, len("a")+len("12345"))
	}
	if s.Contains([]byte("a")) {
		t.Fatalf("expected a removed")
	}
	if n2 := s.Delete([]byte("a")); n2 != 0 {
		t.Fatalf("deleting an absent key should report 0 bytes, got %d", n2)
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	s := openTestStore(t)
	s.Put([]byte("p/1"), []byte("a"))
	s.Put([]byte("p/2"), []byte("b"))
	s.Put([]byte("q"), []byte("c"))

	protect := func(key []byte) bool { return string(key) == "p/1" }
	s.DeletePrefix([]byte("p/"), protect)

	if !s.Contains([]byte("p/1")) {
		t.Fatalf("expected filtered key p/1 to survive")
	}
	if s.Contains([]byte("p/2")) {
		t.Fatalf("expected p/2 removed")
	}
	if !s.Contains([]byte("q")) {
		t.Fatalf("expected unrelated key q untouched")
	}
}

func TestStoreApplyBatch(t *testing.T) {
	s := openTestStore(t)
	s.Put([]byte("stale"), []byte("x"))

	b := NewBatch()
	b.Put([]byte("a"), []byte("1"))
	b.Put([]byte("b"), []byte("2"))
	b.Delete([]byte("stale"))

	if err := s.ApplyBatch(b); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if !s.Contains([]byte("a")) || !s.Contains([]byte("b")) {
		t.Fatalf("expected batched puts visible")
	}
	if s.Contains([]byte("stale")) {
		t.Fatalf("expected batched delete visible")
	}
}

func TestStoreIterator(t *testing.T) {
	s := openTestStore(t)
	s.Put([]byte("a"), []byte("1"))
	s.Put([]byte("b"), []byte("2"))

	it := s.NewIterator()
	defer it.Release()

	got := map[string]string{}
	for it.Next() {
		got[string(it.Key())] = string(it.Value())
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected scan result: %v", got)
	}
}

func TestStoreSize(t *testing.T) {
	s := openTestStore(t)
	if s.Size() != 0 {
		t.Fatalf("expected empty store size 0, got %d", s.Size())
	}
	s.Put([]byte("a"), []byte("12345678"))
	// goleveldb's SizeOf approximates on-disk (SSTable) footprint, which
	// for a handful of bytes still resident in the memtable may read 0 —
	// so the post-write value is only computed here, not asserted.
	_ = s.Size()
}

func TestStoreClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db")
	s, result := Open(Settings{Path: path, MaxChunkSize: 4 << 20})
	if result != Success {
		t.Fatalf("Open() = %v", result)
	}
	s.Put([]byte("a"), []byte("1"))
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	reopened, result := Open(Settings{Path: path, MaxChunkSize: 4 << 20})
	if result != Success {
		t.Fatalf("reopen after Clear: %v", result)
	}
	defer reopened.Close()
	if reopened.Contains([]byte("a")) {
		t.Fatalf("expected store empty after Clear")
	}
}
