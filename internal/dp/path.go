package dp

import (
	"tkfalign/internal/alignment"
	"tkfalign/internal/tkf91"
)

// Legal reports whether a column sequence is a path of the pair HMM: an
// insertion never directly follows a deletion.
func Legal(kinds []alignment.Kind) bool {
	for k := 1; k < len(kinds); k++ {
		if kinds[k-1] == alignment.Deletion && kinds[k] == alignment.Insertion {
			return false
		}
	}
	return true
}

// ColumnScore is the factor contributed by column c when it ends at (i,j),
// i.e. after consuming its residues. Columns on the i=0 or j=0 edge and the
// substitution at (1,1) carry the start factors.
func ColumnScore[T any](ops Ops[T], g *tkf91.Generators[T], c alignment.Column, i, j int) T {
	switch c.Kind() {
	case alignment.Deletion:
		switch {
		case j == 0 && i == 1:
			return g.LeadDel[c.A]
		case j == 0:
			return g.LeadDelExt[c.A]
		}
		return g.Del[c.A]
	case alignment.Insertion:
		switch {
		case i == 0 && j == 1:
			return g.LeadIns[c.B]
		case i == 0:
			return g.LeadInsExt[c.B]
		}
		return g.Ins[c.B]
	}
	s := g.Match[c.A][c.B]
	if i == 1 && j == 1 {
		s = ops.Add(g.Start, s)
	}
	return s
}

// PathScore is the score of an alignment, or NegInf when it is not a legal
// path. The empty alignment scores the start factor.
func PathScore[T any](ops Ops[T], g *tkf91.Generators[T], aln alignment.Alignment) T {
	if len(aln) == 0 {
		return g.Start
	}
	if !Legal(aln.Kinds()) {
		return ops.NegInf()
	}
	total := ops.Zero()
	i, j := 0, 0
	for _, c := range aln {
		da, db := c.Kind().Consumes()
		i, j = i+da, j+db
		total = ops.Add(total, ColumnScore(ops, g, c, i, j))
	}
	return total
}
