package reservoir

import "testing"

func TestDiskLRUOrdering(t *testing.T) {
	d := newDiskLRU()
	d.Upsert("a", 1, neverExpiry)
	d.Upsert("b", 1, neverExpiry)
	d.Upsert("c", 1, neverExpiry)

	lru := d.lruOrder()
	if len(lru) != 3 || lru[0] != "a" || lru[2] != "c" {
		t.Fatalf("unexpected LRU order: %v", lru)
	}

	d.Touch("a") // promote a to MRU
	lru = d.lruOrder()
	if lru[len(lru)-1] != "a" {
		t.Fatalf("expected a most-recently-used after Touch, order: %v", lru)
	}

	mru := d.mruOrder()
	if mru[0] != "a" {
		t.Fatalf("expected mruOrder to start with the most-recently-used entry, got %v", mru)
	}
}

func TestDiskLRURemovePrefix(t *testing.T) {
	d := newDiskLRU()
	d.Upsert("p/1", 1, neverExpiry)
	d.Upsert("p/2", 1, neverExpiry)
	d.Upsert("q", 1, neverExpiry)

	d.RemovePrefix("p/")

	if d.Len() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", d.Len())
	}
	if _, ok := d.Peek("q"); !ok {
		t.Fatalf("expected q to remain")
	}
}

func TestDiskLRUNeverAutoEvicts(t *testing.T) {
	d := newDiskLRU()
	for i := 0; i < 10_000; i++ {
		d.Upsert(string(rune(i)), 1, neverExpiry)
	}
	if d.Len() != 10_000 {
		t.Fatalf("expected no auto-eviction, got len %d", d.Len())
	}
}
