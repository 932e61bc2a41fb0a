// Package intern provides a small object-interning pool: equal values share
// one canonical instance, so consumers can compare cheaply and avoid
// holding duplicates.
package intern

// Pool caches one canonical instance per distinct value.
type Pool[T comparable] struct {
	pool map[T]T
}

// NewPool creates an empty pool.
func NewPool[T comparable]() *Pool[T] {
	return &Pool[T]{pool: map[T]T{}}
}

// Intern returns the canonical instance equal to v, registering v as
// canonical if none exists yet.
func (p *Pool[T]) Intern(v T) T {
	if c, ok := p.pool[v]; ok {
		return c
	}
	p.pool[v] = v
	return v
}

// Len returns the number of distinct values interned so far.
func (p *Pool[T]) Len() int {
	return len(p.pool)
}
