package ball

import (
	"math/big"
	"math/bits"
)

// guardBits is the extra working precision used inside series evaluation.
const guardBits = 48

func newWork(prec uint) *big.Float { return new(big.Float).SetPrec(prec) }

// countRad returns k * 2^-wp rounded up.
func countRad(k int, wp uint) *big.Float {
	return newRad().Mul(newRad().SetInt64(int64(k)), pow2(-int(wp)))
}

// expPoint evaluates e^x for an exact x and returns the value at working
// precision with a bound on its relative error.
//
// The argument is scaled by 2^-s so that |x/2^s| < 1/4, summed as a Taylor
// series and squared back s times.
func expPoint(x *big.Float, prec uint) (*big.Float, *big.Float) {
	if x.Sign() == 0 {
		return newWork(prec).SetInt64(1), newRad()
	}
	e := x.MantExp(nil)
	s := 0
	if e > -2 {
		s = e + 2
	}
	wp := prec + guardBits + uint(s)
	if xp := x.Prec(); wp < xp+guardBits {
		wp = xp + guardBits
	}

	r := newWork(wp).SetMantExp(x, -s)
	sum := newWork(wp).SetInt64(1)
	term := newWork(wp).SetInt64(1)
	eps := pow2(-int(wp))
	k := newWork(wp)
	n := 0
	for i := 1; ; i++ {
		term.Mul(term, r)
		term.Quo(term, k.SetInt64(int64(i)))
		sum.Add(sum, term)
		n = i
		if absF(term).Cmp(eps) < 0 {
			break
		}
	}
	for i := 0; i < s; i++ {
		sum.Mul(sum, sum)
	}

	// Series error is at most (6n+4) eps relative; each squaring at most
	// doubles it and adds one rounding.
	rel := countRad(6*n+4, wp)
	rel.Mul(rel, pow2(s+1))
	return sum, rel
}

// Exp encloses e^a. The result is unbounded when the radius of a exceeds 1/2.
func (a Ball) Exp() Ball {
	half := pow2(-1)
	if !a.IsFinite() || a.rad.Cmp(half) > 0 {
		return Whole(a.prec)
	}
	val, rel := expPoint(a.mid, a.prec)
	m := newWork(a.prec).Set(val)

	absVal := absF(val)
	// e^(m+t) - e^m <= e^m (e^r - 1) <= 2 r e^m for |t| <= r <= 1/2.
	spread := mulRad(absVal, newRad().Mul(a.rad, newRad().SetInt64(2)))
	spread = mulRad(spread, addRad(newRad().SetInt64(1), rel))
	r := addRad(mulRad(absVal, rel), roundingErr(m, a.prec), spread)
	return Ball{mid: m, rad: r, prec: a.prec}
}

// atanhSeries sums z + z^3/3 + z^5/5 + ... for |z| <= 1/3 and returns the
// number of terms used.
func atanhSeries(z *big.Float, wp uint) (*big.Float, int) {
	z2 := newWork(wp).Mul(z, z)
	pow := newWork(wp).Set(z)
	sum := newWork(wp).Set(z)
	eps := pow2(-int(wp))
	den := newWork(wp)
	term := newWork(wp)
	n := 1
	for k := 1; ; k++ {
		pow.Mul(pow, z2)
		term.Quo(pow, den.SetInt64(int64(2*k+1)))
		sum.Add(sum, term)
		n++
		if absF(pow).Cmp(eps) < 0 {
			break
		}
	}
	return sum, n
}

// logPoint evaluates ln x for an exact x > 0 with an absolute error bound.
//
// x = f * 2^e with f in [1/2, 1); ln f = 2 atanh((f-1)/(f+1)) and
// ln 2 = 2 atanh(1/3).
func logPoint(x *big.Float, prec uint) (*big.Float, *big.Float) {
	f := new(big.Float)
	e := x.MantExp(f)
	absE := e
	if absE < 0 {
		absE = -absE
	}
	wp := prec + guardBits + uint(bits.Len(uint(absE)))
	if xp := x.Prec(); wp < xp+guardBits {
		wp = xp + guardBits
	}

	one := newWork(wp).SetInt64(1)
	num := newWork(wp).Sub(f, one)
	den := newWork(wp).Add(f, one)
	z := newWork(wp).Quo(num, den)
	lnf, n1 := atanhSeries(z, wp)
	lnf.Mul(lnf, newWork(wp).SetInt64(2))

	third := newWork(wp).Quo(one, newWork(wp).SetInt64(3))
	ln2, n2 := atanhSeries(third, wp)
	ln2.Mul(ln2, newWork(wp).SetInt64(2))

	res := newWork(wp).Mul(ln2, newWork(wp).SetInt64(int64(e)))
	res.Add(res, lnf)

	n := n1
	if n2 > n {
		n = n2
	}
	errBound := countRad((absE+1)*(8*n+16), wp)
	return res, errBound
}

// Log encloses ln a. The result is unbounded when a may be non-positive.
func (a Ball) Log() Ball {
	if !a.IsFinite() || a.mid.Sign() <= 0 {
		return Whole(a.prec)
	}
	low := radDown().Sub(a.mid, a.rad)
	if low.Sign() <= 0 {
		return Whole(a.prec)
	}
	val, abserr := logPoint(a.mid, a.prec)
	m := newWork(a.prec).Set(val)

	// |ln(m+t) - ln m| <= r / (m - r) for |t| <= r < m.
	spread := newRad()
	if a.rad.Sign() > 0 {
		spread = newRad().Quo(a.rad, low)
	}
	r := addRad(abserr, roundingErr(m, a.prec), spread)
	return Ball{mid: m, rad: r, prec: a.prec}
}
