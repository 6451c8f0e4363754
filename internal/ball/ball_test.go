package ball

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

func TestFromRat_EnclosesValue(t *testing.T) {
	b := FromRat(rat(1, 10), 64)
	iv := b.Interval()
	assert.True(t, iv.Contains(0.1))
	assert.Greater(t, b.Rad().Sign(), 0, "1/10 is not dyadic so the radius must be positive")

	exact := FromRat(rat(3, 4), 64)
	assert.Equal(t, 0, exact.Rad().Sign())
}

func TestArithmetic_Encloses(t *testing.T) {
	x := FromRat(rat(1, 3), 128)
	y := FromRat(rat(2, 7), 128)

	assert.True(t, x.Add(y).Contains(1.0/3+2.0/7))
	assert.True(t, x.Sub(y).Contains(1.0/3-2.0/7))
	assert.True(t, x.Mul(y).Contains(2.0/21))
	assert.True(t, x.Quo(y).Contains(7.0/6))
	assert.True(t, x.MulInt(-3).Contains(-1))
}

func TestQuo_ByZeroIsWhole(t *testing.T) {
	z := FromInt64(0, 64)
	q := FromInt64(1, 64).Quo(z)
	assert.False(t, q.IsFinite())
	assert.Equal(t, 0, q.Sign())
}

func TestExp_Encloses(t *testing.T) {
	for _, v := range []struct{ num, den int64 }{
		{0, 1}, {1, 10}, {-1, 10}, {1, 1}, {-5, 2}, {37, 3}, {-200, 1},
	} {
		x := FromRat(rat(v.num, v.den), 128)
		got := x.Exp()
		want := math.Exp(float64(v.num) / float64(v.den))
		require.True(t, got.IsFinite())
		iv := got.Interval()
		assert.True(t, iv.Lo <= want*(1+1e-15) && want*(1-1e-15) <= iv.Hi,
			"exp(%d/%d)=%g not near %v", v.num, v.den, want, iv)
		assert.Less(t, iv.Hi-iv.Lo, math.Abs(want)*1e-12+1e-300)
	}
}

func TestExp_WideBallIsWhole(t *testing.T) {
	x := FromInt64(1, 64).Add(Whole(64))
	assert.False(t, x.Exp().IsFinite())
}

func TestLog_Encloses(t *testing.T) {
	for _, v := range []struct{ num, den int64 }{
		{1, 1}, {1, 2}, {3, 4}, {1, 10}, {7, 3}, {1000, 1}, {1, 1000000},
	} {
		x := FromRat(rat(v.num, v.den), 128)
		got := x.Log()
		want := math.Log(float64(v.num) / float64(v.den))
		require.True(t, got.IsFinite())
		iv := got.Interval()
		assert.True(t, iv.Lo <= want+1e-14 && want-1e-14 <= iv.Hi,
			"log(%d/%d)=%g not near %v", v.num, v.den, want, iv)
	}
}

func TestLog_Identities(t *testing.T) {
	// ln(e^x) encloses x.
	x := FromRat(rat(3, 7), 256)
	back := x.Exp().Log()
	assert.True(t, back.Sub(x).Sign() == 0)

	// ln 2 + ln 3 overlaps ln 6.
	l2 := FromInt64(2, 256).Log()
	l3 := FromInt64(3, 256).Log()
	l6 := FromInt64(6, 256).Log()
	assert.True(t, l2.Add(l3).Overlaps(l6))
}

func TestLog_NonPositive(t *testing.T) {
	assert.False(t, FromInt64(0, 64).Log().IsFinite())
	assert.False(t, FromInt64(-1, 64).Log().IsFinite())
}

func TestSign_SeparatesCloseValues(t *testing.T) {
	a := FromRat(rat(1, 3), 256)
	b := FromRat(new(big.Rat).Add(rat(1, 3), new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 200))), 256)
	assert.Equal(t, -1, a.Sub(b).Sign())

	lowPrec := FromRat(rat(1, 3), 64).Sub(FromRat(new(big.Rat).Add(rat(1, 3), new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 200))), 64))
	assert.Equal(t, 0, lowPrec.Sign())
}

func TestInterval_OutwardRounding(t *testing.T) {
	x, y := 0.1, 0.2
	sum := x + y
	s := Point(x).Add(Point(y))
	assert.True(t, s.Contains(sum))
	assert.Less(t, s.Lo, sum)
	assert.Greater(t, s.Hi, sum)

	// The true sum of the decimals lies inside as well.
	tenths := big.NewRat(3, 10)
	assert.LessOrEqual(t, new(big.Rat).SetFloat64(s.Lo).Cmp(tenths), 0)
	assert.GreaterOrEqual(t, new(big.Rat).SetFloat64(s.Hi).Cmp(tenths), 0)

	n := NegInf().Add(Point(3))
	assert.True(t, math.IsInf(n.Lo, -1))
	assert.True(t, math.IsInf(n.Mid(), -1))
}

func TestInterval_MaxAndGap(t *testing.T) {
	a := Interval{Lo: 1, Hi: 2}
	b := Interval{Lo: 3, Hi: 4}
	assert.Equal(t, Interval{Lo: 3, Hi: 4}, a.Max(b))
	assert.Equal(t, 1.0, a.Gap(b))
	assert.Equal(t, 1.0, b.Gap(a))
	assert.Equal(t, 0.0, a.Gap(Interval{Lo: 1.5, Hi: 5}))
	assert.True(t, b.Above(a))
	assert.False(t, a.Above(a))
}
