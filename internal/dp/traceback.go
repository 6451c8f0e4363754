package dp

import (
	"math/big"

	"tkfalign/internal/alignment"
)

// priority is the order in which the traceback prefers tied states.
var priority = [3]int{Del, Sub, Ins}

func first(set uint8) int {
	for _, s := range priority {
		if set&(1<<s) != 0 {
			return s
		}
	}
	return -1
}

// Traceback walks back from (n,m) and returns one optimal alignment. Each
// step takes the first state of the allowed argmax set in the order
// deletion, substitution, insertion; after an insertion only max2 states
// are allowed. The boolean reports whether any set on the path was wider
// than the true ties.
func (t *Tableau[T]) Traceback() (alignment.Alignment, bool) {
	i, j := len(t.A), len(t.B)
	allowed := t.Max3(i, j)
	ambiguous := t.Ambiguous(i, j, false)

	rev := make(alignment.Alignment, 0, i+j)
	for i > 0 || j > 0 {
		afterIns := false
		switch first(allowed) {
		case Del:
			rev = append(rev, alignment.Column{A: t.A[i-1], B: alignment.Gap})
			i--
		case Sub:
			rev = append(rev, alignment.Column{A: t.A[i-1], B: t.B[j-1]})
			i--
			j--
		case Ins:
			rev = append(rev, alignment.Column{A: alignment.Gap, B: t.B[j-1]})
			j--
			afterIns = true
		default:
			panic("dp: traceback entered an unreachable cell")
		}
		if afterIns {
			allowed = t.Max2(i, j)
		} else {
			allowed = t.Max3(i, j)
		}
		if t.Ambiguous(i, j, afterIns) {
			ambiguous = true
		}
	}

	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev, ambiguous
}

// CountOptimal returns the number of distinct alignments that attain the
// final score, counted over the argmax sets.
func (t *Tableau[T]) CountOptimal() *big.Int {
	n, m := len(t.A), len(t.B)
	newRow := func() ([]*big.Int, []*big.Int) {
		c3, c2 := make([]*big.Int, m+1), make([]*big.Int, m+1)
		for j := range c3 {
			c3[j], c2[j] = new(big.Int), new(big.Int)
		}
		return c3, c2
	}
	prev3, prev2 := newRow()
	cur3, cur2 := newRow()
	zero := new(big.Int)
	one := big.NewInt(1)

	for i := 0; i <= n; i++ {
		for j := 0; j <= m; j++ {
			var paths [3]*big.Int
			paths[Del], paths[Sub], paths[Ins] = zero, zero, zero
			if i > 0 {
				paths[Del] = prev3[j]
			}
			switch {
			case i == 0 && j == 0:
				paths[Sub] = one
			case i > 0 && j > 0:
				paths[Sub] = prev3[j-1]
			}
			if j > 0 {
				paths[Ins] = cur2[j-1]
			}

			s3, s2 := t.Max3(i, j), t.Max2(i, j)
			cur3[j].SetInt64(0)
			cur2[j].SetInt64(0)
			for s := range paths {
				if s3&(1<<s) != 0 {
					cur3[j].Add(cur3[j], paths[s])
				}
				if s2&(1<<s) != 0 {
					cur2[j].Add(cur2[j], paths[s])
				}
			}
		}
		prev3, cur3 = cur3, prev3
		prev2, cur2 = cur2, prev2
	}
	return new(big.Int).Set(prev3[m])
}
