package main

import (
	"cmp"
	"fmt"
	"math/rand"
	"time"

	"github.com/fulldump/ordermap/sliding"
	"github.com/fulldump/ordermap/store"
)

func TestStore(c Config) {

	fmt.Println("== store ==")

	r := rand.New(rand.NewSource(c.Seed))
	keys := r.Perm(c.N)

	s := store.WithCapacity[int, string, struct{}](cmp.Compare[int], c.N, false)

	t0 := time.Now()
	for _, k := range keys {
		s.Add(k, fmt.Sprintf("row-%d", k), struct{}{})
	}
	took := time.Since(t0)
	fmt.Println("inserted:", s.Len())
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

	// Monotone probes: the Finder's cached position should absorb almost
	// every one of these.
	f := s.Finder()
	t0 = time.Now()
	hits := 0
	for probe := 0; probe < c.N; probe++ {
		if _, ok := f.JustBefore(probe); ok {
			hits++
		}
	}
	took = time.Since(t0)
	fmt.Println("finder probes:", hits)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f probes/sec\n", float64(c.N)/took.Seconds())

	// Largest gap between adjacent keys, via the pairwise window.
	maxGap := 0
	for a, b := range sliding.PairsOf(s.Entries()) {
		if gap := b.Key - a.Key; gap > maxGap {
			maxGap = gap
		}
	}
	fmt.Println("max key gap:", maxGap)

	start, span := s.Range(store.Incl(c.N/4), store.Excl(3*c.N/4))
	fmt.Println("range start:", start, "len:", len(span))
}
