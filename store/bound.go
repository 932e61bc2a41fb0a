package store

type boundKind int

const (
	boundUnbounded boundKind = iota
	boundInclusive
	boundExclusive
)

// Bound is one end of a key range: inclusive, exclusive or open.
type Bound[K any] struct {
	key  K
	kind boundKind
}

// Incl bounds a range at key, key included.
func Incl[K any](key K) Bound[K] {
	return Bound[K]{key: key, kind: boundInclusive}
}

// Excl bounds a range at key, key excluded.
func Excl[K any](key K) Bound[K] {
	return Bound[K]{key: key, kind: boundExclusive}
}

// NoBound leaves the range open on this end.
func NoBound[K any]() Bound[K] {
	return Bound[K]{}
}

// IsUnbounded reports whether this end of the range is open.
func (b Bound[K]) IsUnbounded() bool {
	return b.kind == boundUnbounded
}

// IsInclusive reports whether the bound key itself is inside the range.
func (b Bound[K]) IsInclusive() bool {
	return b.kind == boundInclusive
}

// Key returns the bound key. Meaningless when IsUnbounded.
func (b Bound[K]) Key() K {
	return b.key
}
