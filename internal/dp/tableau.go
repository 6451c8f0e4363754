// internal/dp/tableau.go
package dp

import (
	"context"

	"tkfalign/internal/alignment"
	"tkfalign/internal/tkf91"
)

// States of the pair HMM, also the bit positions in a max3 set.
const (
	Del = iota
	Sub
	Ins
)

// Flag bits per cell.
const (
	max3Mask          = 0b111
	max2Shift         = 3 // bit 3: M1 attains max2, bit 4: M2 attains max2
	flagMax3Ambiguous = 1 << 5
	flagMax2Ambiguous = 1 << 6
)

// Tableau is a filled recurrence: the final score and the argmax flags of
// every cell.
type Tableau[T any] struct {
	A, B  alignment.Sequence
	Score T

	cols  int
	flags []uint8
}

func (t *Tableau[T]) at(i, j int) uint8 { return t.flags[i*t.cols+j] }

// Max3 is the set of states attaining max3 at (i,j).
func (t *Tableau[T]) Max3(i, j int) uint8 { return t.at(i, j) & max3Mask }

// Max2 is the set of states attaining max2 at (i,j), as state bits.
func (t *Tableau[T]) Max2(i, j int) uint8 { return ((t.at(i, j) >> max2Shift) & 0b11) << 1 }

// Ambiguous reports whether the max3 (or max2) set at (i,j) is wider than
// the true ties.
func (t *Tableau[T]) Ambiguous(i, j int, afterIns bool) bool {
	if afterIns {
		return t.at(i, j)&flagMax2Ambiguous != 0
	}
	return t.at(i, j)&flagMax3Ambiguous != 0
}

type row[T any] struct {
	m    [3][]T
	max3 []T
	max2 []T
}

func newRow[T any](n int) row[T] {
	var r row[T]
	for s := range r.m {
		r.m[s] = make([]T, n)
	}
	r.max3 = make([]T, n)
	r.max2 = make([]T, n)
	return r
}

// Fill runs the recurrence for a against b. Context cancellation is checked
// once per row.
func Fill[T any](ctx context.Context, ops Ops[T], g *tkf91.Generators[T], a, b alignment.Sequence) (*Tableau[T], error) {
	n, m := len(a), len(b)
	t := &Tableau[T]{A: a, B: b, cols: m + 1, flags: make([]uint8, (n+1)*(m+1))}
	prev, cur := newRow[T](m+1), newRow[T](m+1)
	neg := ops.NegInf()

	var buf3 [3]T
	var buf2 [2]T
	settle := func(r row[T], i, j int) error {
		buf3 = [3]T{r.m[Del][j], r.m[Sub][j], r.m[Ins][j]}
		v3, s3, amb3, err := ops.Argmax(buf3[:])
		if err != nil {
			return err
		}
		buf2 = [2]T{r.m[Sub][j], r.m[Ins][j]}
		v2, s2, amb2, err := ops.Argmax(buf2[:])
		if err != nil {
			return err
		}
		r.max3[j], r.max2[j] = v3, v2

		f := s3 | s2<<max2Shift
		if amb3 {
			f |= flagMax3Ambiguous
		}
		if amb2 {
			f |= flagMax2Ambiguous
		}
		t.flags[i*t.cols+j] = f
		return nil
	}

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := 0; j <= m; j++ {
			d, s, ins := neg, neg, neg
			switch {
			case i == 0 && j == 0:
				s = g.Start
			case i == 0:
				if j == 1 {
					ins = g.LeadIns[b[0]]
				} else {
					ins = ops.Add(cur.m[Ins][j-1], g.LeadInsExt[b[j-1]])
				}
			case j == 0:
				if i == 1 {
					d = g.LeadDel[a[0]]
				} else {
					d = ops.Add(prev.m[Del][0], g.LeadDelExt[a[i-1]])
				}
			default:
				x, y := a[i-1], b[j-1]
				d = ops.Add(prev.max3[j], g.Del[x])
				s = ops.Add(prev.max3[j-1], g.Match[x][y])
				ins = ops.Add(cur.max2[j-1], g.Ins[y])
			}
			cur.m[Del][j], cur.m[Sub][j], cur.m[Ins][j] = d, s, ins
			if err := settle(cur, i, j); err != nil {
				return nil, err
			}
		}
		prev, cur = cur, prev
	}
	t.Score = prev.max3[m]
	return t, nil
}
