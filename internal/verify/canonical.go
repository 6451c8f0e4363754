package verify

import (
	"slices"

	"tkfalign/internal/alignment"
	"tkfalign/internal/dp"
	"tkfalign/internal/symbolic"
	"tkfalign/internal/tkf91"
)

// Canonical reports whether aln is in canonical form. An optimal
// alignment is canonical when it is the traceback of t: walking back from
// (n,m), each column is the first tied state in the order deletion,
// substitution, insertion. Exactly one optimal alignment is canonical.
//
// A suboptimal alignment has no tableau path to follow, so it is
// canonical when no adjacent pair of columns x, y (x first) can trade
// places such that both keep their residues, the result is still a legal
// path, the score does not change, and x ranks strictly before y.
func Canonical(ops dp.Exact, g *tkf91.Generators[symbolic.Vector], t *dp.Tableau[symbolic.Vector], aln alignment.Alignment, optimal bool) bool {
	if optimal {
		tb, _ := t.Traceback()
		return slices.Equal(aln, tb)
	}
	return locallyOrdered(ops, g, aln)
}

func locallyOrdered(ops dp.Exact, g *tkf91.Generators[symbolic.Vector], aln alignment.Alignment) bool {
	kinds := aln.Kinds()
	i, j := 0, 0
	for k := 0; k+1 < len(aln); k++ {
		x, y := aln[k], aln[k+1]
		kx, ky := kinds[k], kinds[k+1]
		dxa, dxb := kx.Consumes()
		dya, dyb := ky.Consumes()
		// (i, j) is the position before x.
		if kx.Rank() < ky.Rank() && swappable(x, y) && legalSwap(kinds, k) {
			before := ops.Add(
				dp.ColumnScore(ops, g, x, i+dxa, j+dxb),
				dp.ColumnScore(ops, g, y, i+dxa+dya, j+dxb+dyb),
			)
			after := ops.Add(
				dp.ColumnScore(ops, g, y, i+dya, j+dyb),
				dp.ColumnScore(ops, g, x, i+dxa+dya, j+dxb+dyb),
			)
			if before.Equal(after) {
				return false
			}
		}
		i, j = i+dxa, j+dxb
	}
	return true
}

// swappable reports whether exchanging x and y leaves both rows' residue
// strings unchanged.
func swappable(x, y alignment.Column) bool {
	if x.A != alignment.Gap && y.A != alignment.Gap && x.A != y.A {
		return false
	}
	if x.B != alignment.Gap && y.B != alignment.Gap && x.B != y.B {
		return false
	}
	return true
}

// legalSwap reports whether the path stays legal once columns k and k+1
// are exchanged.
func legalSwap(kinds []alignment.Kind, k int) bool {
	lo, hi := k-1, k+2
	if lo < 0 {
		lo = 0
	}
	if hi >= len(kinds) {
		hi = len(kinds) - 1
	}
	window := append([]alignment.Kind(nil), kinds[lo:hi+1]...)
	off := k - lo
	window[off], window[off+1] = window[off+1], window[off]
	return dp.Legal(window)
}
