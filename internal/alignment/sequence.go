// Package alignment holds nucleotide sequences and gapped pairwise
// alignments.
package alignment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSymbol = errors.New("invalid nucleotide symbol")
	ErrMalformed     = errors.New("malformed alignment")
)

// Residue codes follow the parameter order pa, pc, pg, pt.
const (
	A byte = iota
	C
	G
	T
	// Gap marks the empty side of an indel column.
	Gap
)

const letters = "ACGT-"

func code(r byte) (byte, bool) {
	switch r {
	case 'A', 'a':
		return A, true
	case 'C', 'c':
		return C, true
	case 'G', 'g':
		return G, true
	case 'T', 't':
		return T, true
	case '-':
		return Gap, true
	}
	return 0, false
}

// Letter renders a residue code.
func Letter(c byte) byte { return letters[c] }

// Sequence is an ungapped nucleotide sequence as residue codes.
type Sequence []byte

// ParseSequence accepts A, C, G and T in either case. The empty string is
// a valid, empty sequence.
func ParseSequence(s string) (Sequence, error) {
	out := make(Sequence, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := code(s[i])
		if !ok || c == Gap {
			return nil, fmt.Errorf("%w %q at position %d", ErrInvalidSymbol, s[i], i)
		}
		out[i] = c
	}
	return out, nil
}

func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		b.WriteByte(Letter(c))
	}
	return b.String()
}
