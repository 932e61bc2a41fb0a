// Package bagstore implements an ordered mapping from key to a bag of
// values: key order is total, values under one key keep insertion order.
// Like its single-valued sibling (package store) every mutation can be
// recorded as a change event.
//
// The backing container is a B-tree of bags, so inserting a value under a
// new key is O(log n) instead of the sorted-slice O(n) shift.
package bagstore

import (
	"cmp"
	"slices"

	"github.com/google/btree"

	"github.com/fulldump/ordermap/store"
)

// bag holds the values of one key, in insertion order. It is never empty:
// removing the last value removes the bag from the tree.
type bag[K any, V comparable] struct {
	key    K
	values []V
}

// BagStore maps totally-ordered keys to non-empty bags of values. Values
// only need equality, not order. Not safe for concurrent use.
type BagStore[K any, V comparable, M any] struct {
	compare   func(a, b K) int
	tree      *btree.BTreeG[*bag[K, V]]
	count     int
	events    []store.Event[K, V, M]
	recording bool
}

// New creates an empty bag store ordered by the given comparator. See
// store.New for the holdEvents contract.
func New[K any, V comparable, M any](compare func(a, b K) int, holdEvents bool) *BagStore[K, V, M] {
	return &BagStore[K, V, M]{
		compare: compare,
		tree: btree.NewG(32, func(a, b *bag[K, V]) bool {
			return compare(a.key, b.key) < 0
		}),
		recording: holdEvents,
	}
}

// NewOrdered is New for keys that are naturally ordered.
func NewOrdered[K cmp.Ordered, V comparable, M any](holdEvents bool) *BagStore[K, V, M] {
	return New[K, V, M](cmp.Compare[K], holdEvents)
}

func (s *BagStore[K, V, M]) record(mk func() store.Event[K, V, M]) {
	if !s.recording {
		return
	}
	s.events = append(s.events, mk())
}

// Get returns the values under key, in insertion order, nil when the key is
// absent. The slice is the live bag: treat it as read-only.
func (s *BagStore[K, V, M]) Get(key K) []V {
	b, ok := s.tree.Get(&bag[K, V]{key: key})
	if !ok {
		return nil
	}
	return b.values
}

// Add appends value to the bag at key, creating the bag if needed.
func (s *BagStore[K, V, M]) Add(key K, value V, metadata M) {
	s.addInternal(key, value)
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventAdded)
		e.Value = value
		e.Metadata = metadata
		return e
	})
}

func (s *BagStore[K, V, M]) addInternal(key K, value V) {
	if b, ok := s.tree.Get(&bag[K, V]{key: key}); ok {
		b.values = append(b.values, value)
	} else {
		s.tree.ReplaceOrInsert(&bag[K, V]{key: key, values: []V{value}})
	}
	s.count++
}

// AddSlice appends a whole slice of values to the bag at key and records a
// single AddedMany event.
func (s *BagStore[K, V, M]) AddSlice(key K, values []V, metadata M) {
	if b, ok := s.tree.Get(&bag[K, V]{key: key}); ok {
		b.values = append(b.values, values...)
	} else if len(values) > 0 {
		s.tree.ReplaceOrInsert(&bag[K, V]{key: key, values: slices.Clone(values)})
	}
	s.count += len(values)
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventAddedMany)
		e.Values = slices.Clone(values)
		e.Metadata = metadata
		return e
	})
}

// Remove deletes the first value equal to value under key. The bag is
// dropped once it empties. A miss is a silent no-op with no event.
func (s *BagStore[K, V, M]) Remove(key K, value V) (V, bool) {
	removed, ok := s.removeInternal(key, value)
	if ok {
		s.record(func() store.Event[K, V, M] {
			e := store.NewEvent[K, V, M](store.EventRemoved)
			e.Value = removed
			return e
		})
	}
	return removed, ok
}

func (s *BagStore[K, V, M]) removeInternal(key K, value V) (V, bool) {
	var zero V
	b, ok := s.tree.Get(&bag[K, V]{key: key})
	if !ok {
		return zero, false
	}
	i := slices.Index(b.values, value)
	if i < 0 {
		return zero, false
	}
	removed := b.values[i]
	b.values = slices.Delete(b.values, i, i+1)
	if len(b.values) == 0 {
		s.tree.Delete(b)
	}
	s.count--
	return removed, true
}

// RemoveSlice deletes each listed value once, in listed order, under key.
// Missing values are skipped. Records one RemovedMany with exactly the
// values that actually went.
func (s *BagStore[K, V, M]) RemoveSlice(key K, values []V) []V {
	var removed []V
	for _, v := range values {
		if r, ok := s.removeInternal(key, v); ok {
			removed = append(removed, r)
		}
	}
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventRemovedMany)
		e.Values = slices.Clone(removed)
		return e
	})
	return removed
}

// Change applies a batch of (key, value) moves in two phases: every From
// pair is removed first, then every To pair is inserted. Moves whose From
// pair is absent are dropped. One Changed event carries the realized moves.
func (s *BagStore[K, V, M]) Change(moves []store.Move[K, V], metadata M) {
	realized := make([]store.Move[K, V], 0, len(moves))
	for _, m := range moves {
		if removed, ok := s.removeInternal(m.From.Key, m.From.Value); ok {
			realized = append(realized, store.Move[K, V]{
				From: store.Entry[K, V]{Key: m.From.Key, Value: removed},
				To:   m.To,
			})
		}
	}
	for _, m := range realized {
		s.addInternal(m.To.Key, m.To.Value)
	}
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventChanged)
		e.FromTo = realized
		e.Metadata = metadata
		return e
	})
}

// BulkAdd appends many (key, value) pairs and records one BulkAddedRemoved
// event with the added side.
func (s *BagStore[K, V, M]) BulkAdd(entries []store.Entry[K, V], metadata M) {
	for _, en := range entries {
		s.addInternal(en.Key, en.Value)
	}
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventBulkAddedRemoved)
		e.Added = slices.Clone(entries)
		e.Metadata = metadata
		return e
	})
}

// BulkRemove deletes many (key, value) pairs, skipping missing ones, and
// returns what was actually removed.
func (s *BagStore[K, V, M]) BulkRemove(entries []store.Entry[K, V], metadata M) []store.Entry[K, V] {
	removed := make([]store.Entry[K, V], 0, len(entries))
	for _, en := range entries {
		if r, ok := s.removeInternal(en.Key, en.Value); ok {
			removed = append(removed, store.Entry[K, V]{Key: en.Key, Value: r})
		}
	}
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventBulkAddedRemoved)
		e.Removed = slices.Clone(removed)
		e.Metadata = metadata
		return e
	})
	return removed
}

// PopFirst removes the whole lowest-keyed bag and returns it. Records one
// RemovedMany with the bag's values.
func (s *BagStore[K, V, M]) PopFirst() (K, []V, bool) {
	b, ok := s.tree.DeleteMin()
	if !ok {
		var zero K
		return zero, nil, false
	}
	s.count -= len(b.values)
	s.record(func() store.Event[K, V, M] {
		e := store.NewEvent[K, V, M](store.EventRemovedMany)
		e.Values = slices.Clone(b.values)
		return e
	})
	return b.key, b.values, true
}

// PeekLast returns the highest-keyed bag without removing it.
func (s *BagStore[K, V, M]) PeekLast() (K, []V, bool) {
	b, ok := s.tree.Max()
	if !ok {
		var zero K
		return zero, nil, false
	}
	return b.key, b.values, true
}

// Clear drops everything and records ClearedAll.
func (s *BagStore[K, V, M]) Clear() {
	s.tree.Clear(false)
	s.count = 0
	s.record(func() store.Event[K, V, M] {
		return store.NewEvent[K, V, M](store.EventClearedAll)
	})
}

// Len returns the total number of values across every bag. It is tracked
// incrementally, never recomputed.
func (s *BagStore[K, V, M]) Len() int {
	return s.count
}

// IsEmpty reports whether the store holds no values.
func (s *BagStore[K, V, M]) IsEmpty() bool {
	return s.count == 0
}

// Each traverses every (key, value) pair in key order, insertion order
// within a key, until f returns false.
func (s *BagStore[K, V, M]) Each(f func(key K, value V) bool) {
	s.tree.Ascend(func(b *bag[K, V]) bool {
		for _, v := range b.values {
			if !f(b.key, v) {
				return false
			}
		}
		return true
	})
}

// EachBag traverses whole bags in key order until f returns false. The
// values slice is the live bag: treat it as read-only.
func (s *BagStore[K, V, M]) EachBag(f func(key K, values []V) bool) {
	s.tree.Ascend(func(b *bag[K, V]) bool {
		return f(b.key, b.values)
	})
}

// EachRange is Each limited to the key span between start and end.
func (s *BagStore[K, V, M]) EachRange(start, end store.Bound[K], f func(key K, value V) bool) {
	visit := func(b *bag[K, V]) bool {
		if !end.IsUnbounded() {
			c := s.compare(b.key, end.Key())
			if c > 0 || (c == 0 && !end.IsInclusive()) {
				return false
			}
		}
		if !start.IsUnbounded() && !start.IsInclusive() && s.compare(b.key, start.Key()) == 0 {
			return true
		}
		for _, v := range b.values {
			if !f(b.key, v) {
				return false
			}
		}
		return true
	}
	if start.IsUnbounded() {
		s.tree.Ascend(visit)
	} else {
		s.tree.AscendGreaterOrEqual(&bag[K, V]{key: start.Key()}, visit)
	}
}

// Events returns the recorded events, oldest first. Panics when the store
// was constructed without event recording.
func (s *BagStore[K, V, M]) Events() []store.Event[K, V, M] {
	if !s.recording {
		panic("bagstore: event recording is disabled, construct with holdEvents=true")
	}
	return s.events
}

// ClearEvents forgets every recorded event.
func (s *BagStore[K, V, M]) ClearEvents() {
	s.events = nil
}
