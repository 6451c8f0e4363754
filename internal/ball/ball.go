// Package ball implements rigorous enclosure arithmetic.
//
// Ball is a midpoint/radius pair on math/big floats at a caller-chosen
// precision: every operation returns a ball that contains the exact result
// of applying the operation to any points of its operands. Interval is the
// hardware-double counterpart with outward rounding, used where speed
// matters more than width.
//
// A ball whose radius is +Inf carries no information; operations that
// cannot produce a finite enclosure (division by a ball containing zero,
// log of a ball reaching zero, exp of a very wide ball) return one instead
// of failing, and Sign reports 0 for it.
package ball

import (
	"math"
	"math/big"
)

// radPrec is the precision of radii. Radii are always rounded up.
const radPrec = 64

// Ball encloses a real number as [Mid-Rad, Mid+Rad].
type Ball struct {
	mid  *big.Float
	rad  *big.Float
	prec uint
}

func newRad() *big.Float {
	return new(big.Float).SetPrec(radPrec).SetMode(big.AwayFromZero)
}

// radDown is used for quantities that end up in a denominator.
func radDown() *big.Float {
	return new(big.Float).SetPrec(radPrec).SetMode(big.ToZero)
}

func pow2(e int) *big.Float {
	return newRad().SetMantExp(big.NewFloat(1), e)
}

// ulp bounds the rounding error of a value stored with prec bits.
func ulp(x *big.Float, prec uint) *big.Float {
	if x.Sign() == 0 {
		return newRad()
	}
	if x.IsInf() {
		return newRad().SetInf(false)
	}
	e := x.MantExp(nil)
	return pow2(e - int(prec))
}

func roundingErr(x *big.Float, prec uint) *big.Float {
	if x.Acc() == big.Exact {
		return newRad()
	}
	return ulp(x, prec)
}

func absF(x *big.Float) *big.Float {
	return new(big.Float).SetPrec(x.Prec()).Abs(x)
}

func addRad(xs ...*big.Float) *big.Float {
	r := newRad()
	for _, x := range xs {
		if x.IsInf() {
			return newRad().SetInf(false)
		}
		r.Add(r, x)
	}
	return r
}

func mulRad(a, b *big.Float) *big.Float {
	if a.Sign() == 0 || b.Sign() == 0 {
		return newRad()
	}
	return newRad().Mul(a, b)
}

func maxPrec(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}

// FromRat encloses an exact rational at prec bits.
func FromRat(r *big.Rat, prec uint) Ball {
	m := new(big.Float).SetPrec(prec).SetRat(r)
	return Ball{mid: m, rad: roundingErr(m, prec), prec: prec}
}

// FromInt encloses an arbitrary integer at prec bits.
func FromInt(n *big.Int, prec uint) Ball {
	m := new(big.Float).SetPrec(prec).SetInt(n)
	return Ball{mid: m, rad: roundingErr(m, prec), prec: prec}
}

// FromInt64 returns an exact ball.
func FromInt64(k int64, prec uint) Ball {
	if prec < 64 {
		prec = 64
	}
	m := new(big.Float).SetPrec(prec).SetInt64(k)
	return Ball{mid: m, rad: newRad(), prec: prec}
}

// Whole is the ball that encloses everything.
func Whole(prec uint) Ball {
	return Ball{mid: new(big.Float).SetPrec(prec), rad: newRad().SetInf(false), prec: prec}
}

// Prec is the working precision of the midpoint.
func (a Ball) Prec() uint { return a.prec }

// Mid returns a copy of the midpoint.
func (a Ball) Mid() *big.Float { return new(big.Float).Copy(a.mid) }

// Rad returns a copy of the radius.
func (a Ball) Rad() *big.Float { return new(big.Float).Copy(a.rad) }

// IsFinite reports whether the radius is finite.
func (a Ball) IsFinite() bool { return !a.rad.IsInf() }

func (a Ball) Neg() Ball {
	return Ball{mid: new(big.Float).SetPrec(a.prec).Neg(a.mid), rad: a.rad, prec: a.prec}
}

func (a Ball) Add(b Ball) Ball {
	p := maxPrec(a.prec, b.prec)
	m := new(big.Float).SetPrec(p).Add(a.mid, b.mid)
	return Ball{mid: m, rad: addRad(a.rad, b.rad, roundingErr(m, p)), prec: p}
}

func (a Ball) Sub(b Ball) Ball { return a.Add(b.Neg()) }

func (a Ball) Mul(b Ball) Ball {
	p := maxPrec(a.prec, b.prec)
	m := new(big.Float).SetPrec(p).Mul(a.mid, b.mid)
	if !a.IsFinite() || !b.IsFinite() {
		return Ball{mid: m, rad: newRad().SetInf(false), prec: p}
	}
	r := addRad(
		mulRad(absF(a.mid), b.rad),
		mulRad(absF(b.mid), a.rad),
		mulRad(a.rad, b.rad),
		roundingErr(m, p),
	)
	return Ball{mid: m, rad: r, prec: p}
}

// MulInt multiplies by an exact integer.
func (a Ball) MulInt(k int64) Ball {
	return a.Mul(FromInt64(k, a.prec))
}

// Quo divides a by b. The result is unbounded when b contains zero.
func (a Ball) Quo(b Ball) Ball {
	p := maxPrec(a.prec, b.prec)
	bm := absF(b.mid)
	if !a.IsFinite() || !b.IsFinite() || bm.Cmp(b.rad) <= 0 {
		return Whole(p)
	}
	m := new(big.Float).SetPrec(p).Quo(a.mid, b.mid)

	// |a/b - am/bm| <= (ar*|bm| + |am|*br) / ((|bm|-br)*|bm|)
	num := addRad(mulRad(a.rad, bm), mulRad(absF(a.mid), b.rad))
	low := radDown().Sub(bm, b.rad)
	den := radDown().Mul(low, bm)
	r := addRad(newRad().Quo(num, den), roundingErr(m, p))
	return Ball{mid: m, rad: r, prec: p}
}

// Sign is +1 or -1 when the ball excludes zero and 0 otherwise.
func (a Ball) Sign() int {
	if !a.IsFinite() {
		return 0
	}
	if absF(a.mid).Cmp(a.rad) <= 0 {
		return 0
	}
	return a.mid.Sign()
}

// Overlaps reports whether the two enclosures intersect.
func (a Ball) Overlaps(b Ball) bool {
	return a.Sub(b).Sign() == 0
}

// Contains reports whether x lies in the ball.
func (a Ball) Contains(x float64) bool {
	return a.Interval().Contains(x)
}

// Interval converts to an outward-rounded float64 interval.
func (a Ball) Interval() Interval {
	if !a.IsFinite() {
		return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
	}
	wp := a.prec + radPrec + 8
	lo := new(big.Float).SetPrec(wp).SetMode(big.ToNegativeInf).Sub(a.mid, a.rad)
	hi := new(big.Float).SetPrec(wp).SetMode(big.ToPositiveInf).Add(a.mid, a.rad)

	l, acc := lo.Float64()
	if acc == big.Above {
		l = math.Nextafter(l, math.Inf(-1))
	}
	h, acc := hi.Float64()
	if acc == big.Below {
		h = math.Nextafter(h, math.Inf(1))
	}
	return Interval{Lo: l, Hi: h}
}

// Float64 is the midpoint rounded to the nearest double.
func (a Ball) Float64() float64 {
	f, _ := a.mid.Float64()
	return f
}

func (a Ball) String() string {
	return a.mid.Text('g', 20) + " +/- " + a.rad.Text('g', 6)
}
