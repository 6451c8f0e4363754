package precision

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrPrecisionFailure means a finite-precision score fell outside the
	// tolerance of the exact reference. The mode was insufficient; the
	// scorer is not wrong.
	ErrPrecisionFailure = errors.New("precision failure")
	ErrInvalidTolerance = errors.New("rtol must be a finite number >= 0")
	ErrModeMismatch     = errors.New("score mode does not match policy")
)

// Policy compares a reported score against a reference score.
type Policy struct {
	Mode Mode
	RTol float64
}

// NewPolicy validates rtol. Exact ignores it and always stores 0.
func NewPolicy(mode Mode, rtol float64) (Policy, error) {
	if math.IsNaN(rtol) || math.IsInf(rtol, 0) || rtol < 0 {
		return Policy{}, fmt.Errorf("%w (got %v)", ErrInvalidTolerance, rtol)
	}
	if mode == Exact {
		rtol = 0
	}
	return Policy{Mode: mode, RTol: rtol}, nil
}

// bound is rtol * max(|r|, |ref|, 1).
func (p Policy) bound(r, ref float64) float64 {
	return p.RTol * math.Max(math.Max(math.Abs(r), math.Abs(ref)), 1)
}

// Equal reports whether reported, computed under p.Mode, matches reference.
// The reference is normally the Exact score of the same alignment problem.
//
//   - Exact: the symbolic values are identical.
//   - Certified: the enclosures are within rtol of each other; with rtol 0
//     they must overlap.
//   - Double, Single: |r-ref| <= rtol*max(|r|,|ref|,1); with rtol 0 the
//     floats must be equal.
func (p Policy) Equal(reported, reference Score) (bool, error) {
	if reported.Mode != p.Mode {
		return false, fmt.Errorf("%w: %s score under %s policy", ErrModeMismatch, reported.Mode, p.Mode)
	}
	if reported.IsNegInf() || reference.IsNegInf() {
		return reported.IsNegInf() && reference.IsNegInf(), nil
	}

	switch p.Mode {
	case Exact:
		if reference.Mode != Exact {
			return false, fmt.Errorf("%w: exact policy needs an exact reference", ErrModeMismatch)
		}
		return reported.Vector.Equal(reference.Vector), nil
	case Certified:
		gap := reported.Enclosure.Gap(reference.Enclosure)
		return gap <= p.bound(reported.Value, reference.Value), nil
	default:
		if p.RTol == 0 {
			return reported.Value == reference.Value, nil
		}
		return math.Abs(reported.Value-reference.Value) <= p.bound(reported.Value, reference.Value), nil
	}
}
