// Package dp runs the three-state TKF91 Viterbi recurrence over any score
// type that provides Ops.
//
// States: 0 is a deletion column (M0), 1 a substitution column (M1) and 2
// an insertion column (M2). A cell keeps the argmax sets of max3 =
// max(M0,M1,M2) and max2 = max(M1,M2) as flag bits, while score values are
// held in two rolling rows.
package dp

import (
	"math"
	"math/bits"

	"tkfalign/internal/ball"
	"tkfalign/internal/symbolic"
)

// Ops is the arithmetic the recurrence needs from a score type.
type Ops[T any] interface {
	Zero() T
	NegInf() T
	Add(a, b T) T
	// Argmax returns the maximum of vals, the bit set of indices that may
	// attain it and whether that set is wider than the true ties. The set
	// is empty when every value is -Inf.
	Argmax(vals []T) (T, uint8, bool, error)
}

// Float is Ops over hardware floats. Ties are exact float equality.
type Float[F float32 | float64] struct{}

func (Float[F]) Zero() F { return 0 }
func (Float[F]) NegInf() F { return F(math.Inf(-1)) }
func (Float[F]) Add(a, b F) F { return a + b }

func (Float[F]) Argmax(vals []F) (F, uint8, bool, error) {
	best := vals[0]
	for _, v := range vals[1:] {
		if v > best {
			best = v
		}
	}
	if math.IsInf(float64(best), -1) {
		return best, 0, false, nil
	}
	var set uint8
	for k, v := range vals {
		if v == best {
			set |= 1 << k
		}
	}
	return best, set, false, nil
}

// Certified is Ops over outward-rounded intervals. A state stays in the
// argmax set while its upper bound reaches the largest lower bound.
type Certified struct{}

func (Certified) Zero() ball.Interval { return ball.Point(0) }
func (Certified) NegInf() ball.Interval { return ball.NegInf() }

func (Certified) Add(a, b ball.Interval) ball.Interval { return a.Add(b) }

func (Certified) Argmax(vals []ball.Interval) (ball.Interval, uint8, bool, error) {
	best := vals[0]
	for _, v := range vals[1:] {
		best = best.Max(v)
	}
	if math.IsInf(best.Hi, -1) {
		return best, 0, false, nil
	}
	var set uint8
	for k, v := range vals {
		if v.Hi >= best.Lo && !math.IsInf(v.Hi, -1) {
			set |= 1 << k
		}
	}
	return best, set, bits.OnesCount8(set) > 1, nil
}

// Exact is Ops over symbolic vectors; ties are vector identities.
type Exact struct {
	Basis *symbolic.Basis
}

func (e Exact) Zero() symbolic.Vector { return e.Basis.Zero() }
func (Exact) NegInf() symbolic.Vector { return symbolic.NegInf }
func (Exact) Add(a, b symbolic.Vector) symbolic.Vector { return a.Add(b) }

func (e Exact) Argmax(vals []symbolic.Vector) (symbolic.Vector, uint8, bool, error) {
	best := vals[0]
	var set uint8 = 1
	for k := 1; k < len(vals); k++ {
		c, err := e.Basis.Compare(vals[k], best)
		if err != nil {
			return nil, 0, false, err
		}
		switch {
		case c > 0:
			best, set = vals[k], 1<<k
		case c == 0:
			set |= 1 << k
		}
	}
	if best.IsNegInf() {
		return best, 0, false, nil
	}
	return best, set, false, nil
}
