// Package store implements a sorted key/value container backed by a
// contiguous slice and binary search. Every mutation can optionally be
// recorded as a change event so that callers (undo stacks, UIs, journals)
// can react to exactly what happened.
package store

import (
	"cmp"
	"reflect"
	"slices"
)

// Entry is one key/value pair held by a Store.
type Entry[K, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Rekey describes one move for Change: the entry currently at From is
// removed and To is inserted in its place (possibly under a new key).
type Rekey[K, V any] struct {
	From K
	To   Entry[K, V]
}

// Store keeps entries sorted strictly ascending by key, unique keys. The
// order is defined by a caller supplied three-way comparator. Lookups are
// O(log n), single inserts and removes pay an O(n) shift, range results are
// contiguous sub-slices.
//
// A Store is not safe for concurrent use. Wrap it in a mutex if you need
// that.
type Store[K, V, M any] struct {
	compare   func(a, b K) int
	clone     func(V) V
	entries   []Entry[K, V]
	events    []Event[K, V, M]
	recording bool
}

// New creates an empty store. When holdEvents is true every mutation is
// recorded and can be drained with Events; when false event payloads are
// never even constructed.
func New[K, V, M any](compare func(a, b K) int, holdEvents bool) *Store[K, V, M] {
	return &Store[K, V, M]{
		compare:   compare,
		recording: holdEvents,
	}
}

// NewOrdered is New for keys that are naturally ordered.
func NewOrdered[K cmp.Ordered, V, M any](holdEvents bool) *Store[K, V, M] {
	return New[K, V, M](cmp.Compare[K], holdEvents)
}

// WithCapacity is New with a pre-sized backing slice.
func WithCapacity[K, V, M any](compare func(a, b K) int, capacity int, holdEvents bool) *Store[K, V, M] {
	s := New[K, V, M](compare, holdEvents)
	s.entries = make([]Entry[K, V], 0, capacity)
	return s
}

// Index is the primitive every other operation builds on: a binary search
// returning the position of key and whether it is an exact match. On a miss
// the position is the insertion point that keeps the store sorted.
func (s *Store[K, V, M]) Index(key K) (int, bool) {
	return slices.BinarySearchFunc(s.entries, key, func(e Entry[K, V], k K) int {
		return s.compare(e.Key, k)
	})
}

func (s *Store[K, V, M]) record(mk func() Event[K, V, M]) {
	if !s.recording {
		return
	}
	s.events = append(s.events, mk())
}

// Add inserts value at key, or replaces the value already there. On a
// replacement the displaced old value is returned and a Removed event
// precedes the Added one.
func (s *Store[K, V, M]) Add(key K, value V, metadata M) (old V, replaced bool) {
	old, replaced = s.addInternal(key, value)
	if replaced {
		s.record(func() Event[K, V, M] {
			e := NewEvent[K, V, M](EventRemoved)
			e.Value = old
			return e
		})
	}
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventAdded)
		e.Value = value
		e.Metadata = metadata
		return e
	})
	return old, replaced
}

// addInternal mutates without recording.
func (s *Store[K, V, M]) addInternal(key K, value V) (old V, replaced bool) {
	i, found := s.Index(key)
	if found {
		old = s.entries[i].Value
		s.entries[i] = Entry[K, V]{Key: key, Value: value}
		return old, true
	}
	s.entries = slices.Insert(s.entries, i, Entry[K, V]{Key: key, Value: value})
	return old, false
}

// Remove deletes the entry at key. A missing key is a silent no-op: nothing
// is removed and no event is recorded.
func (s *Store[K, V, M]) Remove(key K) (Entry[K, V], bool) {
	removed, ok := s.removeInternal(key)
	if ok {
		s.record(func() Event[K, V, M] {
			e := NewEvent[K, V, M](EventRemoved)
			e.Value = removed.Value
			return e
		})
	}
	return removed, ok
}

func (s *Store[K, V, M]) removeInternal(key K) (Entry[K, V], bool) {
	i, found := s.Index(key)
	if !found {
		var zero Entry[K, V]
		return zero, false
	}
	removed := s.entries[i]
	s.entries = slices.Delete(s.entries, i, i+1)
	return removed, true
}

// Range resolves both bounds by binary search and returns the absolute index
// of the first entry together with the contiguous sub-slice inside the
// bounds. An empty span yields (0, nil).
func (s *Store[K, V, M]) Range(start, end Bound[K]) (int, []Entry[K, V]) {
	if len(s.entries) == 0 {
		return 0, nil
	}

	lo := 0
	switch start.kind {
	case boundInclusive:
		lo, _ = s.Index(start.key)
	case boundExclusive:
		i, found := s.Index(start.key)
		if found {
			i++
		}
		lo = i
	}

	hi := len(s.entries)
	switch end.kind {
	case boundInclusive:
		i, found := s.Index(end.key)
		if found {
			i++
		}
		hi = i
	case boundExclusive:
		hi, _ = s.Index(end.key)
	}

	if lo >= hi {
		return 0, nil
	}
	return lo, s.entries[lo:hi:hi]
}

// Change applies a batch of moves in two phases: first every From key is
// removed, then every To entry is inserted. Removals must fully precede the
// inserts, otherwise an insert could collide with a key a later move still
// has to vacate. Entries displaced by the inserts are returned. One Changed
// event carries the realized moves plus the displaced entries.
//
// If two moves target the same destination key the last one wins.
func (s *Store[K, V, M]) Change(moves []Rekey[K, V], metadata M) []Entry[K, V] {
	realized := make([]Move[K, V], 0, len(moves))
	for _, m := range moves {
		if removed, ok := s.removeInternal(m.From); ok {
			realized = append(realized, Move[K, V]{From: removed, To: m.To})
		}
	}

	var displaced []Entry[K, V]
	for _, m := range realized {
		if old, replaced := s.addInternal(m.To.Key, m.To.Value); replaced {
			displaced = append(displaced, Entry[K, V]{Key: m.To.Key, Value: old})
		}
	}

	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventChanged)
		e.FromTo = realized
		e.Removed = slices.Clone(displaced)
		e.Metadata = metadata
		return e
	})
	return displaced
}

// BulkAdd inserts or replaces many entries and returns every value displaced
// by a same-key replacement. One BulkAddedRemoved event carries both sides.
func (s *Store[K, V, M]) BulkAdd(entries []Entry[K, V], metadata M) []Entry[K, V] {
	var displaced []Entry[K, V]
	for _, e := range entries {
		if old, replaced := s.addInternal(e.Key, e.Value); replaced {
			displaced = append(displaced, Entry[K, V]{Key: e.Key, Value: old})
		}
	}
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventBulkAddedRemoved)
		e.Added = slices.Clone(entries)
		e.Removed = slices.Clone(displaced)
		e.Metadata = metadata
		return e
	})
	return displaced
}

// BulkRemove deletes many keys, skipping missing ones, and returns what was
// actually removed. One BulkAddedRemoved event with only the removed side.
func (s *Store[K, V, M]) BulkRemove(keys []K, metadata M) []Entry[K, V] {
	removed := make([]Entry[K, V], 0, len(keys))
	for _, k := range keys {
		if e, ok := s.removeInternal(k); ok {
			removed = append(removed, e)
		}
	}
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventBulkAddedRemoved)
		e.Removed = slices.Clone(removed)
		e.Metadata = metadata
		return e
	})
	return removed
}

// PopFirst removes and returns the lowest-keyed entry.
func (s *Store[K, V, M]) PopFirst() (Entry[K, V], bool) {
	if len(s.entries) == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	first := s.entries[0]
	s.entries = slices.Delete(s.entries, 0, 1)
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventRemoved)
		e.Value = first.Value
		return e
	})
	return first, true
}

// Replace upserts via a pure function of the current value. f is called
// exactly once, with nil when the key is absent. Records Changed on an
// update and Added on an insert.
func (s *Store[K, V, M]) Replace(key K, metadata M, f func(old *V) V) {
	i, found := s.Index(key)
	if found {
		before := s.entries[i]
		value := f(&before.Value)
		s.entries[i] = Entry[K, V]{Key: key, Value: value}
		s.record(func() Event[K, V, M] {
			e := NewEvent[K, V, M](EventChanged)
			e.FromTo = []Move[K, V]{{From: before, To: Entry[K, V]{Key: key, Value: value}}}
			e.Metadata = metadata
			return e
		})
		return
	}
	value := f(nil)
	s.entries = slices.Insert(s.entries, i, Entry[K, V]{Key: key, Value: value})
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventAdded)
		e.Value = value
		e.Metadata = metadata
		return e
	})
}

// SnapshotWith registers a deep copy used to snapshot a value before
// ReplaceMut hands it to the mutator. Without one, values that share memory
// (slices, maps, pointers) cannot back a trustworthy diff: every ReplaceMut
// on them records a Changed event whose From side mirrors the mutated state.
// With a clone the From side is exact and untouched values record nothing.
func (s *Store[K, V, M]) SnapshotWith(clone func(V) V) {
	s.clone = clone
}

// ReplaceMut upserts allowing in-place mutation, so large values need not be
// rebuilt to touch one field. f receives a pointer to the live value (nil
// when absent) and may either mutate through it and return ok=false, or
// return a replacement with ok=true. When the key is absent and ok is false
// nothing happens.
//
// With events enabled the outcome is diffed against a snapshot taken before
// the call and a Changed event is recorded only when something actually
// changed. The diff is trusted only when the snapshot is independent of the
// live value: plain value types, or any type once a clone is registered with
// SnapshotWith. Otherwise an in-place call always records Changed.
func (s *Store[K, V, M]) ReplaceMut(key K, metadata M, f func(old *V) (V, bool)) {
	i, found := s.Index(key)
	if !found {
		value, ok := f(nil)
		if !ok {
			return
		}
		s.entries = slices.Insert(s.entries, i, Entry[K, V]{Key: key, Value: value})
		s.record(func() Event[K, V, M] {
			e := NewEvent[K, V, M](EventAdded)
			e.Value = value
			e.Metadata = metadata
			return e
		})
		return
	}

	var snapshot Entry[K, V]
	independent := false
	if s.recording {
		if s.clone != nil {
			snapshot = Entry[K, V]{Key: s.entries[i].Key, Value: s.clone(s.entries[i].Value)}
			independent = true
		} else {
			snapshot = s.entries[i]
			independent = !sharesMemory(reflect.TypeOf(snapshot.Value))
		}
	}
	value, ok := f(&s.entries[i].Value)
	if ok {
		s.entries[i] = Entry[K, V]{Key: key, Value: value}
	}
	if !s.recording {
		return
	}
	after := s.entries[i]
	if !ok && independent && reflect.DeepEqual(snapshot.Value, after.Value) {
		return
	}
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventChanged)
		e.FromTo = []Move[K, V]{{From: snapshot, To: after}}
		e.Metadata = metadata
		return e
	})
}

// sharesMemory reports whether a value of type t can share memory with its
// shallow copies, making such a copy useless as a pre-mutation snapshot.
// Strings are immutable and count as plain.
func sharesMemory(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return sharesMemory(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if sharesMemory(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// RetainValues drops every entry whose value fails keep, preserving the
// order of survivors. One BulkAddedRemoved event lists the casualties.
func (s *Store[K, V, M]) RetainValues(metadata M, keep func(V) bool) []Entry[K, V] {
	var removed []Entry[K, V]
	s.entries = slices.DeleteFunc(s.entries, func(e Entry[K, V]) bool {
		if keep(e.Value) {
			return false
		}
		removed = append(removed, e)
		return true
	})
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventBulkAddedRemoved)
		e.Removed = slices.Clone(removed)
		e.Metadata = metadata
		return e
	})
	return removed
}

// JustBefore returns the suffix of entries starting at the largest key <=
// key. Empty when every key is greater.
func (s *Store[K, V, M]) JustBefore(key K) []Entry[K, V] {
	i, found := s.Index(key)
	if found {
		return s.entries[i:]
	}
	if i == 0 {
		return nil
	}
	return s.entries[i-1:]
}

// JustAfter returns the suffix of entries starting at the smallest key >=
// key. Empty when every key is smaller.
func (s *Store[K, V, M]) JustAfter(key K) []Entry[K, V] {
	i, _ := s.Index(key)
	return s.entries[i:]
}

// UpdateAt replaces the value at position i, keeping the key. Records a
// Changed event.
func (s *Store[K, V, M]) UpdateAt(i int, value V, metadata M) {
	before := s.entries[i]
	s.entries[i] = Entry[K, V]{Key: before.Key, Value: value}
	s.record(func() Event[K, V, M] {
		e := NewEvent[K, V, M](EventChanged)
		e.FromTo = []Move[K, V]{{From: before, To: s.entries[i]}}
		e.Metadata = metadata
		return e
	})
}

// Clear drops every entry and records ClearedAll.
func (s *Store[K, V, M]) Clear() {
	s.entries = s.entries[:0]
	s.record(func() Event[K, V, M] {
		return NewEvent[K, V, M](EventClearedAll)
	})
}

// Len returns the number of entries.
func (s *Store[K, V, M]) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether the store holds no entries.
func (s *Store[K, V, M]) IsEmpty() bool {
	return len(s.entries) == 0
}

// Entries exposes the backing slice. Treat it as read-only; it is
// invalidated by the next mutation.
func (s *Store[K, V, M]) Entries() []Entry[K, V] {
	return s.entries
}

// At returns the entry at position i.
func (s *Store[K, V, M]) At(i int) Entry[K, V] {
	return s.entries[i]
}

// First returns the lowest-keyed entry.
func (s *Store[K, V, M]) First() (Entry[K, V], bool) {
	if len(s.entries) == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	return s.entries[0], true
}

// Last returns the highest-keyed entry.
func (s *Store[K, V, M]) Last() (Entry[K, V], bool) {
	if len(s.entries) == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// Each traverses entries in key order until f returns false.
func (s *Store[K, V, M]) Each(f func(e Entry[K, V]) bool) {
	for _, e := range s.entries {
		if !f(e) {
			return
		}
	}
}

// Events returns the recorded events, oldest first. Calling it on a store
// constructed without event recording is a programmer error and panics.
func (s *Store[K, V, M]) Events() []Event[K, V, M] {
	if !s.recording {
		panic("store: event recording is disabled, construct with holdEvents=true")
	}
	return s.events
}

// ClearEvents forgets every recorded event.
func (s *Store[K, V, M]) ClearEvents() {
	s.events = nil
}

// Finder returns a cursor over this store that exploits temporal locality of
// repeated JustBefore probes. The cursor reads the live store: it must not
// outlive it, and a mutation simply invalidates the cached position, never
// the answers.
func (s *Store[K, V, M]) Finder() *Finder[K, V, M] {
	return &Finder[K, V, M]{store: s, loc: -1}
}
