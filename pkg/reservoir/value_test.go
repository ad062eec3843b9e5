package reservoir

import (
	"testing"
	"time"
)

type widget struct {
	Name  string
	Count int
}

func TestPutValueGetValueRoundTrip(t *testing.T) {
	c := newTestCache(t, nil)

	ok, err := PutValue(c, "w", widget{Name: "bolt", Count: 3}, 30*time.Second)
	if err != nil || !ok {
		t.Fatalf("PutValue failed: ok=%v err=%v", ok, err)
	}

	got, ok, err := GetValue[widget](c, "w")
	if err != nil || !ok {
		t.Fatalf("GetValue failed: ok=%v err=%v", ok, err)
	}
	if got.Name != "bolt" || got.Count != 3 {
		t.Fatalf("GetValue = %+v, want {bolt 3}", got)
	}
}

func TestGetValueMiss(t *testing.T) {
	c := newTestCache(t, nil)

	_, ok, err := GetValue[widget](c, "missing")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if ok {
		t.Fatalf("expected miss for unset key")
	}
}

func TestGetValueDecodeError(t *testing.T) {
	c := newTestCache(t, nil)
	c.Put("bad", []byte("not json"), Never)

	_, ok, err := GetValue[widget](c, "bad")
	if err == nil {
		t.Fatalf("expected decode error for malformed JSON")
	}
	if !ok {
		t.Fatalf("expected ok=true (value present, decode failed)")
	}
}
