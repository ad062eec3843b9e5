package reservoir

import (
	"sort"
	"strings"
)

// protectedKeySet is an ordered set of keys/prefixes immune to eviction and
// removal. An element p "covers" a key k iff k starts with p. No element in
// the set may be a proper prefix of another; a shorter (prefix) element
// always dominates a longer one.
//
// The set is kept as a sorted []string; lookups use binary search
// (sort.Search), matching the std::set<std::string> the legacy engine used,
// since nothing in the retrieved corpus supplies a third-party ordered-set
// type for strings.
type protectedKeySet struct {
	entries []string
	dirty   bool
}

func newProtectedKeySet() *protectedKeySet {
	return &protectedKeySet{}
}

// lowerBound returns the index of the first entry >= k.
func (s *protectedKeySet) lowerBound(k string) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i] >= k
	})
}

// IsProtected reports whether key is covered by some stored element.
func (s *protectedKeySet) IsProtected(key string) bool {
	// Any covering element e satisfies e <= key, and since elements are
	// sorted, the candidate is the last entry <= key: lowerBound(key+"\xff")
	// would overshoot, so instead walk back from the insertion point.
	i := s.lowerBound(key)
	if i < len(s.entries) && s.entries[i] == key {
		return true
	}
	if i == 0 {
		return false
	}
	return strings.HasPrefix(key, s.entries[i-1])
}

// Protect adds keys to the set, applying prefix-dominance: a key already
// covered by a shorter stored prefix is a no-op; a newly inserted key
// absorbs (removes) any longer entries it now dominates. onInserted is
// invoked once per key that was actually newly inserted (used by the engine
// to evict that key, and anything under it, from the Disk LRU Index).
// Returns true iff the set changed.
func (s *protectedKeySet) Protect(keys []string, onInserted func(key string)) bool {
	changed := false
	for _, k := range keys {
		if s.protectOne(k, onInserted) {
			changed = true
		}
	}
	if changed {
		s.dirty = true
	}
	return changed
}

func (s *protectedKeySet) protectOne(k string, onInserted func(key string)) bool {
	i := s.lowerBound(k)

	if i < len(s.entries) && strings.HasPrefix(k, s.entries[i]) {
		// s.entries[i] >= k and covers k (which forces equality here:
		// a prefix <= k would sort before k, not land at lowerBound).
		return false
	}
	if i > 0 && strings.HasPrefix(k, s.entries[i-1]) {
		// Already covered by a shorter stored prefix.
		return false
	}

	// Erase every entry >= k that starts with k: those are now redundant
	// longer entries dominated by the new, shorter k.
	j := i
	for j < len(s.entries) && strings.HasPrefix(s.entries[j], k) {
		j++
	}
	s.entries = append(s.entries[:i], s.entries[j:]...)

	s.entries = append(s.entries, "")
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = k

	if onInserted != nil {
		onInserted(k)
	}
	return true
}

// Release removes keys from the set. For each input key k, if k is covered
// by a stored element that is a *strict* prefix of k (such an element sorts
// just before k), the entire Release call fails (returns false) and stops: a key covered by a protected prefix
// cannot be selectively released. Releases already applied earlier in the
// same call are retained. onReleased is invoked once per removed entry.
func (s *protectedKeySet) Release(keys []string, onReleased func(key string)) bool {
	for _, k := range keys {
		if !s.releaseOne(k, onReleased) {
			return false
		}
	}
	return true
}

func (s *protectedKeySet) releaseOne(k string, onReleased func(key string)) bool {
	i := s.lowerBound(k)

	if i < len(s.entries) && s.entries[i] != k && strings.HasPrefix(k, s.entries[i]) {
		return false
	}
	if i > 0 && strings.HasPrefix(k, s.entries[i-1]) {
		return false
	}

	j := i
	for j < len(s.entries) && strings.HasPrefix(s.entries[j], k) {
		j++
	}
	if j == i {
		return true // nothing to release; not an error
	}

	removed := append([]string(nil), s.entries[i:j]...)
	s.entries = append(s.entries[:i], s.entries[j:]...)
	s.dirty = true

	if onReleased != nil {
		for _, r := range removed {
			onReleased(r)
		}
	}
	return true
}

// Count returns the number of stored entries.
func (s *protectedKeySet) Count() int { return len(s.entries) }

// Clear empties the set.
func (s *protectedKeySet) Clear() {
	s.entries = nil
	s.dirty = true
}

// IsDirty reports whether the set has changed since the last Serialize or
// Deserialize call.
func (s *protectedKeySet) IsDirty() bool { return s.dirty }

// Serialize concatenates every entry, each NUL-terminated, and clears the
// dirty flag.
func (s *protectedKeySet) Serialize() []byte {
	var out []byte
	for _, e := range s.entries {
		out = append(out, e...)
		out = append(out, 0)
	}
	s.dirty = false
	return out
}

// Size returns the byte length Serialize would produce for the current
// entries. It is computed from the entries on each call, so after a Protect
// or Release that has not been serialized it differs from the length of the
// last Serialize output.
func (s *protectedKeySet) Size() int {
	n := 0
	for _, e := range s.entries {
		n += len(e) + 1
	}
	return n
}

// Deserialize replaces the set's contents with the NUL-separated entries in
// data. A trailing, non-NUL-terminated fragment is silently dropped —
// malformed trailing bytes never produce an error. The resulting set is
// marked clean.
func Deserialize(data []byte) *protectedKeySet {
	s := newProtectedKeySet()
	start := 0
	for i, b := range data {
		if b == 0 {
			s.entries = append(s.entries, string(data[start:i]))
			start = i + 1
		}
	}
	sort.Strings(s.entries)
	s.dirty = false
	return s
}
