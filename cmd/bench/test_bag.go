package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fulldump/ordermap/bagstore"
	"github.com/fulldump/ordermap/store"
)

func TestBag(c Config) {

	fmt.Println("== bagstore ==")

	r := rand.New(rand.NewSource(c.Seed))

	s := bagstore.NewOrdered[int, string, struct{}](false)

	// ~8 values per key on average.
	t0 := time.Now()
	for i := 0; i < c.N; i++ {
		s.Add(r.Intn(c.N/8+1), fmt.Sprintf("value-%d", i), struct{}{})
	}
	took := time.Since(t0)
	fmt.Println("inserted:", s.Len())
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f values/sec\n", float64(c.N)/took.Seconds())

	t0 = time.Now()
	visited := 0
	s.EachRange(store.Incl(c.N/32), store.Excl(c.N/16), func(key int, value string) bool {
		visited++
		return true
	})
	fmt.Println("ranged:", visited)
	fmt.Println("took:", time.Since(t0))

	t0 = time.Now()
	drained := 0
	for {
		_, values, ok := s.PopFirst()
		if !ok {
			break
		}
		drained += len(values)
	}
	took = time.Since(t0)
	fmt.Println("drained:", drained)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f values/sec\n", float64(drained)/took.Seconds())
}
