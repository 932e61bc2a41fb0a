package bagstore

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/ordermap/store"
)

type pair struct {
	key   int
	value string
}

// checkCount verifies the incremental counter against a full traversal.
func checkCount[K any, V comparable, M any](s *BagStore[K, V, M]) {
	sum := 0
	s.EachBag(func(key K, values []V) bool {
		// A bag must never be empty.
		AssertTrue(len(values) > 0)
		sum += len(values)
		return true
	})
	AssertEqual(s.Len(), sum)
}

func collect(s *BagStore[int, string, int]) []pair {
	out := []pair{}
	s.Each(func(key int, value string) bool {
		out = append(out, pair{key, value})
		return true
	})
	return out
}

func TestGetEmpty(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	AssertEqual(len(s.Get(0)), 0)
	AssertEqual(s.IsEmpty(), true)
}

func TestAddOne(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	s.Add(0, "Hello", 0)

	AssertEqual(len(s.Get(1)), 0)
	AssertEqual(s.Get(0), []string{"Hello"})
	checkCount(s)
}

func TestAddMultiple(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	s.Add(1, "Hello", 0)
	s.Add(1, "World", 0)
	s.Add(2, "Foo", 0)

	AssertEqual(len(s.Get(0)), 0)
	AssertEqual(s.Get(1), []string{"Hello", "World"})
	AssertEqual(s.Get(2), []string{"Foo"})
	AssertEqual(s.Len(), 3)
	checkCount(s)
}

func TestRemoveNone(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	_, ok := s.Remove(1, "Hello")
	AssertEqual(ok, false)
	AssertEqual(len(s.Events()), 0)
	checkCount(s)
}

func TestRemove(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	s.Add(0, "Hello", 0)
	s.Add(0, "World", 0)
	s.Add(1, "Foo", 0)

	removed, ok := s.Remove(0, "Hello")
	AssertEqual(ok, true)
	AssertEqual(removed, "Hello")
	AssertEqual(s.Get(0), []string{"World"})
	checkCount(s)

	// Removing the last value drops the whole bag.
	_, _ = s.Remove(1, "Foo")
	AssertEqual(len(s.Get(1)), 0)
	AssertEqual(collect(s), []pair{{0, "World"}})
	checkCount(s)
}

func TestRemoveFirstEqualOnly(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	s.Add(0, "dup", 0)
	s.Add(0, "dup", 0)

	s.Remove(0, "dup")
	AssertEqual(s.Get(0), []string{"dup"})
	AssertEqual(s.Len(), 1)
	checkCount(s)
}

func TestAddSlice(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.AddSlice(1, []string{"a", "b"}, 7)
	s.AddSlice(1, []string{"c"}, 7)

	AssertEqual(s.Get(1), []string{"a", "b", "c"})
	AssertEqual(s.Len(), 3)
	checkCount(s)

	events := s.Events()
	AssertEqual(len(events), 2)
	AssertEqual(events[0].Type, store.EventAddedMany)
	AssertEqual(events[0].Values, []string{"a", "b"})
	AssertEqual(events[0].Metadata, 7)
}

func TestRemoveSlice(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.Add(0, "a", 0)
	s.Add(0, "b", 0)
	s.Add(0, "c", 0)
	s.ClearEvents()

	// "x" is missing: skipped, not an error.
	removed := s.RemoveSlice(0, []string{"a", "x", "c"})
	AssertEqual(removed, []string{"a", "c"})
	AssertEqual(s.Get(0), []string{"b"})
	checkCount(s)

	events := s.Events()
	AssertEqual(len(events), 1)
	AssertEqual(events[0].Type, store.EventRemovedMany)
	AssertEqual(events[0].Values, []string{"a", "c"})
}

func TestPopFirst(t *testing.T) {
	s := NewOrdered[int, string, int](true)

	_, _, ok := s.PopFirst()
	AssertEqual(ok, false)

	s.Add(2, "second", 0)
	s.Add(0, "Hello", 0)
	s.Add(0, "World", 0)
	s.ClearEvents()

	key, values, ok := s.PopFirst()
	AssertEqual(ok, true)
	AssertEqual(key, 0)
	AssertEqual(values, []string{"Hello", "World"})
	AssertEqual(s.Len(), 1)
	checkCount(s)

	events := s.Events()
	AssertEqual(len(events), 1)
	AssertEqual(events[0].Type, store.EventRemovedMany)
	AssertEqual(events[0].Values, []string{"Hello", "World"})
}

func TestPeekLast(t *testing.T) {
	s := NewOrdered[int, string, int](false)

	_, _, ok := s.PeekLast()
	AssertEqual(ok, false)

	s.Add(1, "a", 0)
	s.Add(5, "z", 0)

	key, values, ok := s.PeekLast()
	AssertEqual(ok, true)
	AssertEqual(key, 5)
	AssertEqual(values, []string{"z"})
	AssertEqual(s.Len(), 2)
}

func TestChangeTwoPhase(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.Add(0, "Hello", 0)
	s.Add(0, "World", 0)

	s.Change([]store.Move[int, string]{
		{
			From: store.Entry[int, string]{Key: 0, Value: "Hello"},
			To:   store.Entry[int, string]{Key: 1, Value: "Foo"},
		},
	}, 123)

	AssertEqual(s.Get(0), []string{"World"})
	AssertEqual(s.Get(1), []string{"Foo"})
	checkCount(s)

	events := s.Events()
	AssertEqual(len(events), 3)
	AssertEqual(events[2].Type, store.EventChanged)
	AssertEqual(events[2].FromTo, []store.Move[int, string]{
		{
			From: store.Entry[int, string]{Key: 0, Value: "Hello"},
			To:   store.Entry[int, string]{Key: 1, Value: "Foo"},
		},
	})
	AssertEqual(len(events[2].Removed), 0)
	AssertEqual(events[2].Metadata, 123)
}

func TestBulkRoundTrip(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.Add(9, "keep", 0)
	s.ClearEvents()

	batch := []store.Entry[int, string]{
		{Key: 1, Value: "one"},
		{Key: 1, Value: "uno"},
		{Key: 2, Value: "two"},
	}
	s.BulkAdd(batch, 5)
	AssertEqual(s.Len(), 4)
	checkCount(s)

	events := s.Events()
	AssertEqual(len(events), 1)
	AssertEqual(events[0].Type, store.EventBulkAddedRemoved)
	AssertEqual(events[0].Added, batch)

	removed := s.BulkRemove(batch, 6)
	AssertEqual(removed, batch)
	AssertEqual(s.Len(), 1)
	AssertEqual(collect(s), []pair{{9, "keep"}})
	checkCount(s)
}

func TestClear(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.Add(1, "a", 0)
	s.Add(2, "b", 0)
	s.ClearEvents()

	s.Clear()
	AssertEqual(s.Len(), 0)
	AssertEqual(s.IsEmpty(), true)
	checkCount(s)
	AssertEqual(s.Events()[0].Type, store.EventClearedAll)
}

func TestEachFlattensInOrder(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	AssertEqual(len(collect(s)), 0)

	s.Add(0, "Hello", 0)
	s.Add(0, "World", 0)
	s.Add(1, "Foo", 0)
	s.Add(1, "Bar", 0)
	s.Add(2, "Hoge", 0)

	AssertEqual(collect(s), []pair{
		{0, "Hello"},
		{0, "World"},
		{1, "Foo"},
		{1, "Bar"},
		{2, "Hoge"},
	})
}

func TestEachRange(t *testing.T) {
	s := NewOrdered[int, string, int](false)
	s.Add(0, "Hello", 0)
	s.Add(0, "World", 0)
	s.Add(10, "Foo", 0)
	s.Add(10, "Bar", 0)
	s.Add(20, "Hoge", 0)

	ranged := func(start, end store.Bound[int]) []pair {
		out := []pair{}
		s.EachRange(start, end, func(key int, value string) bool {
			out = append(out, pair{key, value})
			return true
		})
		return out
	}

	AssertEqual(ranged(store.Incl(0), store.NoBound[int]()), []pair{
		{0, "Hello"}, {0, "World"}, {10, "Foo"}, {10, "Bar"}, {20, "Hoge"},
	})
	AssertEqual(ranged(store.Incl(5), store.NoBound[int]()), []pair{
		{10, "Foo"}, {10, "Bar"}, {20, "Hoge"},
	})
	AssertEqual(ranged(store.Incl(10), store.Excl(20)), []pair{
		{10, "Foo"}, {10, "Bar"},
	})
	AssertEqual(ranged(store.Excl(10), store.NoBound[int]()), []pair{
		{20, "Hoge"},
	})
	AssertEqual(ranged(store.NoBound[int](), store.Incl(10)), []pair{
		{0, "Hello"}, {0, "World"}, {10, "Foo"}, {10, "Bar"},
	})
	AssertEqual(len(ranged(store.Incl(21), store.NoBound[int]())), 0)
}

func TestObserveEvents(t *testing.T) {
	s := NewOrdered[int, string, int](true)
	s.Add(0, "Hello", 123)

	events := s.Events()
	AssertEqual(len(events), 1)
	AssertEqual(events[0].Type, store.EventAdded)
	AssertEqual(events[0].Value, "Hello")
	AssertEqual(events[0].Metadata, 123)

	// Not found: no event appended.
	_, ok := s.Remove(0, "Hell")
	AssertEqual(ok, false)
	AssertEqual(len(s.Events()), 1)

	removed, ok := s.Remove(0, "Hello")
	AssertEqual(ok, true)
	AssertEqual(removed, "Hello")

	events = s.Events()
	AssertEqual(len(events), 2)
	AssertEqual(events[1].Type, store.EventRemoved)
	AssertEqual(events[1].Value, "Hello")
}

func TestEventsPanicWhenDisabled(t *testing.T) {
	defer func() {
		AssertNotNil(recover())
	}()
	s := NewOrdered[int, string, int](false)
	s.Events()
}
