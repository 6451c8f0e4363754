package ball

import "math"

// Interval is a closed float64 interval [Lo, Hi]. Arithmetic rounds
// outward by one ulp on each side, so enclosure is preserved even though
// hardware rounding is to nearest.
type Interval struct {
	Lo, Hi float64
}

// Point is the degenerate interval [x, x].
func Point(x float64) Interval { return Interval{Lo: x, Hi: x} }

// NegInf is the interval standing for log(0).
func NegInf() Interval { return Interval{Lo: math.Inf(-1), Hi: math.Inf(-1)} }

func down(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(-1))
}

func up(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(1))
}

func (a Interval) Add(b Interval) Interval {
	return Interval{Lo: down(a.Lo + b.Lo), Hi: up(a.Hi + b.Hi)}
}

// Scale encloses k*x for x in a. k must be exactly representable.
func (a Interval) Scale(k int64) Interval {
	f := float64(k)
	switch {
	case k == 0:
		return Point(0)
	case k > 0:
		return Interval{Lo: down(a.Lo * f), Hi: up(a.Hi * f)}
	default:
		return Interval{Lo: down(a.Hi * f), Hi: up(a.Lo * f)}
	}
}

// Max encloses max(x, y) for x in a and y in b.
func (a Interval) Max(b Interval) Interval {
	return Interval{Lo: math.Max(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

// Above reports whether every point of a exceeds every point of b.
func (a Interval) Above(b Interval) bool { return a.Lo > b.Hi }

func (a Interval) Overlaps(b Interval) bool {
	return a.Lo <= b.Hi && b.Lo <= a.Hi
}

func (a Interval) Contains(x float64) bool { return a.Lo <= x && x <= a.Hi }

// Mid is the midpoint; for the NegInf interval it is -Inf.
func (a Interval) Mid() float64 {
	if a.Lo == a.Hi {
		return a.Lo
	}
	return a.Lo + (a.Hi-a.Lo)/2
}

// Gap is the distance between two intervals, zero when they overlap.
func (a Interval) Gap(b Interval) float64 {
	if a.Overlaps(b) {
		return 0
	}
	if a.Above(b) {
		return a.Lo - b.Hi
	}
	return b.Lo - a.Hi
}
