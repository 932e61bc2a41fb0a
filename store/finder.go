package store

// Finder is a read-only cursor bound to a Store that amortizes repeated
// JustBefore probes. It caches the index of the previous answer; when the
// next probe still lands in the same slot, as it does for monotonically
// increasing keys (scanning a timeline), the answer comes back in O(1)
// without searching. Any other probe falls back to binary search.
//
// The cache is only ever used after re-validating it against the live
// entries, so mutating the store between probes costs the fast path but
// never the correctness.
type Finder[K, V, M any] struct {
	store *Store[K, V, M]
	loc   int // index of the previous answer, -1 when unknown
}

// JustBefore returns the entry with the largest key <= key, or false when
// every key in the store is greater.
func (f *Finder[K, V, M]) JustBefore(key K) (Entry[K, V], bool) {
	s := f.store
	n := len(s.entries)
	if n == 0 {
		var zero Entry[K, V]
		return zero, false
	}

	if f.loc >= 0 && f.loc < n {
		e := s.entries[f.loc]
		if s.compare(e.Key, key) <= 0 {
			if f.loc == n-1 || s.compare(key, s.entries[f.loc+1].Key) < 0 {
				return e, true
			}
		}
	}

	i, found := s.Index(key)
	if found {
		f.loc = i
		return s.entries[i], true
	}
	if i == 0 {
		// Every key is greater than the probe.
		f.loc = -1
		var zero Entry[K, V]
		return zero, false
	}
	f.loc = i - 1
	return s.entries[i-1], true
}
