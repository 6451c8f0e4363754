package precision

import (
	"math"

	"tkfalign/internal/ball"
	"tkfalign/internal/symbolic"
)

// Score is a natural-log probability as produced under one Mode.
//
// Value is always set. Enclosure is set for Exact and Certified and
// contains the true value. Vector and Expression, the probability as a
// product of atom powers, are set for Exact only.
type Score struct {
	Mode       Mode
	Value      float64
	Enclosure  ball.Interval
	Vector     symbolic.Vector
	Expression string
}

// ExactScore wraps a symbolic value.
func ExactScore(basis *symbolic.Basis, v symbolic.Vector) Score {
	return Score{
		Mode:       Exact,
		Value:      basis.Float64(v),
		Enclosure:  basis.Interval(v),
		Vector:     v,
		Expression: basis.Format(v),
	}
}

// CertifiedScore wraps an enclosure; Value is its midpoint.
func CertifiedScore(iv ball.Interval) Score {
	return Score{Mode: Certified, Value: iv.Mid(), Enclosure: iv}
}

// FloatScore wraps a hardware float result.
func FloatScore(mode Mode, v float64) Score {
	return Score{Mode: mode, Value: v, Enclosure: ball.Point(v)}
}

// IsNegInf reports a zero-probability score.
func (s Score) IsNegInf() bool { return math.IsInf(s.Value, -1) }
