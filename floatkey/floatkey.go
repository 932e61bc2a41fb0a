// Package floatkey provides a float32 wrapper that can never be NaN, which
// makes it totally ordered and therefore usable as a store key.
package floatkey

import (
	"math"
	"strconv"
)

// F32 is a float32 guaranteed not to be NaN.
type F32 float32

const (
	Zero = F32(0)
	Max  = F32(math.MaxFloat32)
)

// From wraps v. Passing NaN is a programmer error and panics; check with
// math.IsNaN first if the input may contain one.
func From(v float32) F32 {
	if v != v {
		panic("floatkey: NaN is not allowed")
	}
	return F32(v)
}

// Float32 unwraps the value.
func (f F32) Float32() float32 {
	return float32(f)
}

func (f F32) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Cmp is a total order over F32, suitable as a store comparator.
func Cmp(a, b F32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// The arithmetic helpers route their result back through From: operations
// on non-NaN inputs can still produce NaN (inf-inf, 0*inf, 0/0, inf/inf).

func (f F32) Add(o F32) F32 { return From(float32(f) + float32(o)) }
func (f F32) Sub(o F32) F32 { return From(float32(f) - float32(o)) }
func (f F32) Mul(o F32) F32 { return From(float32(f) * float32(o)) }
func (f F32) Div(o F32) F32 { return From(float32(f) / float32(o)) }
