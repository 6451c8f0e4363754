package alignment

import (
	"fmt"
	"strings"
)

// Kind classifies an alignment column.
type Kind uint8

const (
	Deletion Kind = iota
	Match
	Mismatch
	Insertion
)

func (k Kind) String() string {
	switch k {
	case Deletion:
		return "deletion"
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Insertion:
		return "insertion"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Rank orders kinds for canonical form: deletions before substitutions
// before insertions.
func (k Kind) Rank() int {
	switch k {
	case Deletion:
		return 0
	case Insertion:
		return 2
	}
	return 1
}

// Consumes reports how many residues of each sequence the kind uses.
func (k Kind) Consumes() (da, db int) {
	switch k {
	case Deletion:
		return 1, 0
	case Insertion:
		return 0, 1
	}
	return 1, 1
}

// Column is one aligned position. A or B is Gap for indels.
type Column struct {
	A, B byte
}

func (c Column) Kind() Kind {
	switch {
	case c.B == Gap:
		return Deletion
	case c.A == Gap:
		return Insertion
	case c.A == c.B:
		return Match
	}
	return Mismatch
}

func (c Column) String() string {
	return string([]byte{Letter(c.A), Letter(c.B)})
}

// Alignment is a sequence of columns with no gap-gap column.
type Alignment []Column

// Parse reads two gapped rows. The rows must have equal length, use only
// A, C, G, T and '-' (either case) and never align '-' with '-'.
func Parse(rowA, rowB string) (Alignment, error) {
	if len(rowA) != len(rowB) {
		return nil, fmt.Errorf("%w: rows have lengths %d and %d", ErrMalformed, len(rowA), len(rowB))
	}
	out := make(Alignment, len(rowA))
	for i := 0; i < len(rowA); i++ {
		a, okA := code(rowA[i])
		b, okB := code(rowB[i])
		switch {
		case !okA:
			return nil, fmt.Errorf("%w: symbol %q in sequence_a at column %d", ErrMalformed, rowA[i], i)
		case !okB:
			return nil, fmt.Errorf("%w: symbol %q in sequence_b at column %d", ErrMalformed, rowB[i], i)
		case a == Gap && b == Gap:
			return nil, fmt.Errorf("%w: gap aligned to gap at column %d", ErrMalformed, i)
		}
		out[i] = Column{A: a, B: b}
	}
	return out, nil
}

// Rows renders the two gapped rows.
func (aln Alignment) Rows() (string, string) {
	var ra, rb strings.Builder
	ra.Grow(len(aln))
	rb.Grow(len(aln))
	for _, c := range aln {
		ra.WriteByte(Letter(c.A))
		rb.WriteByte(Letter(c.B))
	}
	return ra.String(), rb.String()
}

// Strip removes the gaps and returns the two aligned sequences.
func (aln Alignment) Strip() (Sequence, Sequence) {
	var a, b Sequence
	for _, c := range aln {
		if c.A != Gap {
			a = append(a, c.A)
		}
		if c.B != Gap {
			b = append(b, c.B)
		}
	}
	return a, b
}

// Kinds lists the column kinds in order.
func (aln Alignment) Kinds() []Kind {
	out := make([]Kind, len(aln))
	for i, c := range aln {
		out[i] = c.Kind()
	}
	return out
}
