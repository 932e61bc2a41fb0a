package intern

import (
	"testing"

	. "github.com/fulldump/biff"
)

type data struct {
	value int
	label string
}

func TestInternReturnsCanonical(t *testing.T) {
	pool := NewPool[data]()

	d0 := data{0, "zero"}
	d1 := data{0, "zero"} // equal but a distinct composition

	AssertEqual(pool.Intern(d0), d0)
	AssertEqual(pool.Intern(d1), d0)
	AssertEqual(pool.Len(), 1)

	d2 := data{1, "one"}
	AssertEqual(pool.Intern(d2), d2)
	AssertEqual(pool.Len(), 2)
}

func TestInternPointers(t *testing.T) {
	pool := NewPool[*data]()

	d0 := &data{0, "zero"}
	d1 := &data{0, "zero"}

	// Pointers are compared by identity: two allocations stay distinct.
	AssertTrue(pool.Intern(d0) == d0)
	AssertTrue(pool.Intern(d0) == d0)
	AssertTrue(pool.Intern(d1) == d1)
	AssertEqual(pool.Len(), 2)
}
