package symbolic

import "errors"

const (
	// basePrec is the first precision tried after the float64 fast path.
	basePrec uint = 128
	// maxLevel bounds refinement: the last attempt runs at basePrec<<maxLevel bits.
	maxLevel = 6
)

// ErrUndetermined is returned when two distinct vectors could not be
// separated at the highest precision tried.
var ErrUndetermined = errors.New("symbolic: comparison undetermined at maximum precision")

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
//
// Equal vectors are equal. Otherwise the difference is enclosed first in
// float64 intervals and then in balls of doubling precision until the
// enclosure excludes zero.
func (b *Basis) Compare(x, y Vector) (int, error) {
	switch {
	case x == nil && y == nil:
		return 0, nil
	case x == nil:
		return -1, nil
	case y == nil:
		return 1, nil
	case x.Equal(y):
		return 0, nil
	}
	d := x.Sub(y)

	iv := b.Interval(d)
	switch {
	case iv.Lo > 0:
		return 1, nil
	case iv.Hi < 0:
		return -1, nil
	}

	for level := 0; level <= maxLevel; level++ {
		if s := b.Ball(d, basePrec<<level).Sign(); s != 0 {
			return s, nil
		}
	}
	return 0, ErrUndetermined
}

// Greater reports x > y. Ties are not greater.
func (b *Basis) Greater(x, y Vector) (bool, error) {
	c, err := b.Compare(x, y)
	return c > 0, err
}

// Max returns the larger of x and y and whether x was chosen. Ties pick y.
func (b *Basis) Max(x, y Vector) (Vector, bool, error) {
	gt, err := b.Greater(x, y)
	if err != nil {
		return nil, false, err
	}
	if gt {
		return x, true, nil
	}
	return y, false, nil
}
