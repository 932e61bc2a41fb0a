// Package sliding adapts a sequence into its lazy pairwise window: the
// sequence a, b, c, d becomes (a,b), (b,c), (c,d). Sequences with fewer
// than two elements yield nothing.
package sliding

import (
	"iter"
	"slices"
)

// Pairs returns the pairwise window over seq. Elements are pulled lazily.
func Pairs[T any](seq iter.Seq[T]) iter.Seq2[T, T] {
	return func(yield func(T, T) bool) {
		var prev T
		first := true
		for v := range seq {
			if first {
				prev, first = v, false
				continue
			}
			if !yield(prev, v) {
				return
			}
			prev = v
		}
	}
}

// PairsOf is Pairs over a slice.
func PairsOf[T any](s []T) iter.Seq2[T, T] {
	return Pairs(slices.Values(s))
}
