// internal/model/rational.go
package model

import (
	"fmt"
	"math/big"
)

// RawRational is the wire shape {"num": n, "denom": d}. Both parts are
// arbitrary precision and the pair is not reduced. A nil field means the
// key was absent.
type RawRational struct {
	Num   *big.Int `json:"num"`
	Denom *big.Int `json:"denom"`
}

// NewRaw is a convenience constructor used by callers building requests in
// code.
func NewRaw(num, den int64) *RawRational {
	return &RawRational{Num: big.NewInt(num), Denom: big.NewInt(den)}
}

// Rat returns the reduced value, or nil when a part is missing or the
// denominator is zero.
func (r *RawRational) Rat() *big.Rat {
	if r == nil || r.Num == nil || r.Denom == nil || r.Denom.Sign() == 0 {
		return nil
	}
	return new(big.Rat).SetFrac(r.Num, r.Denom)
}

// Equal reports whether r and o denote the same number.
func (r *RawRational) Equal(o *RawRational) bool {
	a, b := r.Rat(), o.Rat()
	if a == nil || b == nil {
		return false
	}
	return a.Cmp(b) == 0
}

func (r *RawRational) String() string {
	if r == nil || r.Num == nil || r.Denom == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s/%s", r.Num, r.Denom)
}
