package reservoir

import (
	"path/filepath"
	"testing"
	"time"
)

func TestEvictionPrefersExpiredEntriesFirst(t *testing.T) {
	settings := DefaultSettings()
	settings.DiskPathMutable = filepath.Join(t.TempDir(), "mutable")
	settings.MaxDiskStorage = 1000
	settings.MaxMemoryCacheSize = 0

	c := New(settings)
	if result := c.Open(); result != OpenSuccess {
		t.Fatalf("Open() = %v", result)
	}
	defer c.Close()
	c.SetEvictionPortion(1 << 20)

	advance := withFixedClock(c, time.Unix(1_000, 0))

	// "stale" is already expired; "fresh" is not. Eviction should remove
	// stale even though fresh was inserted first (LRU order would
	// otherwise evict fresh first).
	c.Put("fresh", make([]byte, 10), Never)
	c.Put("stale", make([]byte, 10), 1*time.Second)
	advance(2 * time.Second)

	evicted := c.evictExpiredPortion()
	if evicted == 0 {
		t.Fatalf("expected the expired pass to evict stale")
	}
	if c.Contains("stale") {
		t.Fatalf("expected stale removed by the expired pass")
	}
	if !c.Contains("fresh") {
		t.Fatalf("expected fresh to survive the expired pass")
	}
}

func TestSoftCapWatermarks(t *testing.T) {
	c := &Cache{settings: Settings{MaxDiskStorage: 100}}
	c.mutableSize = 91
	if !c.softCapExceeded() {
		t.Fatalf("expected soft cap exceeded at 91/100")
	}
	c.mutableSize = 85
	if !c.underStopWatermark() {
		t.Fatalf("expected stop watermark reached at 85/100")
	}
	c.mutableSize = 86
	if c.underStopWatermark() {
		t.Fatalf("expected stop watermark not reached at 86/100")
	}
}

func TestUnlimitedCapNeverTriggersEviction(t *testing.T) {
	c := &Cache{settings: Settings{MaxDiskStorage: Unlimited}}
	c.mutableSize = 1 << 40
	if c.softCapExceeded() {
		t.Fatalf("expected an unlimited cap to never exceed its soft cap")
	}
}
