package main

import (
	"fmt"
	"io"
	"time"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/ordermap/journal"
	"github.com/fulldump/ordermap/store"
)

type JSON = map[string]any

// TestRetain measures a filtered bulk removal over JSON documents plus the
// journal encoding of the events it produces.
func TestRetain(c Config) {

	fmt.Println("== retain ==")

	s := store.NewOrdered[int, JSON, JSON](true)
	for i := 0; i < c.N; i++ {
		kind := "even"
		if i%2 == 1 {
			kind = "odd"
		}
		s.Add(i, JSON{"kind": kind, "n": float64(i)}, nil)
	}
	s.ClearEvents()

	filter := JSON{"kind": "even"}

	t0 := time.Now()
	removed := s.RetainValues(JSON{"reason": "drop odd"}, func(doc JSON) bool {
		match, err := connor.Match(filter, doc)
		if err != nil {
			panic("match: " + err.Error())
		}
		return match
	})
	took := time.Since(t0)
	fmt.Println("removed:", len(removed), "kept:", s.Len())
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f docs/sec\n", float64(c.N)/took.Seconds())

	t0 = time.Now()
	if err := journal.Encode(io.Discard, s.Events()); err != nil {
		panic("encode journal: " + err.Error())
	}
	fmt.Println("journal encode took:", time.Since(t0))
}
