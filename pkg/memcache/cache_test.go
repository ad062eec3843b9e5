package memcache

import (
	"testing"
	"time"
)

func TestCachePutGet(t *testing.T) {
	c := New[[]byte](1024, ByteCost)

	c.Put("a", []byte("hello"), Never)
	v, ok := c.Get("a")
	if !ok {
		t.Fatalf("expected hit for key a")
	}
	if string(v) != "hello" {
		t.Fatalf("got %q, want %q", v, "hello")
	}
}

func TestCacheMiss(t *testing.T) {
	c := New[[]byte](1024, ByteCost)
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New[[]byte](1024, ByteCost)
	fixed := time.Unix(1_000, 0)
	c.nowFunc = func() time.Time { return fixed }

	c.Put("a", []byte("v"), fixed.Unix()+5)

	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	c.nowFunc = func() time.Time { return fixed.Add(6 * time.Second) }
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after expiry")
	}
	if len(c.expiry) != 0 {
		t.Fatalf("expiry index not purged: %v", c.expiry)
	}
}

func TestCacheDisabled(t *testing.T) {
	c := New[[]byte](0, ByteCost)
	c.Put("a", []byte("v"), Never)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("disabled cache should never hit")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[[]byte](10, ByteCost)

	c.Put("a", []byte("12345"), Never) // cost 5
	c.Put("b", []byte("12345"), Never) // cost 5, total 10

	// Touch a so it's most-recently-used; b should be evicted first.
	c.Get("a")

	c.Put("c", []byte("12345"), Never) // forces eviction of b

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive (recently used)")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c present")
	}
}

func TestCacheRemove(t *testing.T) {
	c := New[[]byte](1024, ByteCost)
	c.Put("a", []byte("v"), Never)
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a removed")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[[]byte](1024, ByteCost)
	c.Put("a", []byte("v"), 123)
	c.Put("b", []byte("v"), Never)
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got len %d", c.Len())
	}
	if len(c.expiry) != 0 {
		t.Fatalf("expected empty expiry index after Clear")
	}
}

func TestEntryCostTurnsCacheIntoCountLRU(t *testing.T) {
	c := New[int](2, EntryCost[int])
	c.Put("a", 1, Never)
	c.Put("b", 2, Never)
	c.Put("c", 3, Never)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a evicted under count-based cost")
	}
}
