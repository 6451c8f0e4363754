package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	s, err := ParseSequence("acgT")
	require.NoError(t, err)
	assert.Equal(t, Sequence{A, C, G, T}, s)
	assert.Equal(t, "ACGT", s.String())

	empty, err := ParseSequence("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"ACGN", "AC-G", "AC GT", "ACGU"} {
		_, err := ParseSequence(bad)
		assert.ErrorIs(t, err, ErrInvalidSymbol, bad)
	}
}

func TestParse_Kinds(t *testing.T) {
	aln, err := Parse("AC-GT", "A-TCT")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Match, Deletion, Insertion, Mismatch, Match}, aln.Kinds())

	ra, rb := aln.Rows()
	assert.Equal(t, "AC-GT", ra)
	assert.Equal(t, "A-TCT", rb)

	a, b := aln.Strip()
	assert.Equal(t, "ACGT", a.String())
	assert.Equal(t, "ATCT", b.String())
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name, a, b string
	}{
		{"unequal rows", "ACG", "AC"},
		{"gap over gap", "A-G", "A-G"},
		{"bad symbol a", "AXG", "ACG"},
		{"bad symbol b", "ACG", "AC*"},
		{"all gaps", "---", "---"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.a, tc.b)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	aln, err := Parse("", "")
	require.NoError(t, err)
	assert.Empty(t, aln)
	a, b := aln.Strip()
	assert.Empty(t, a)
	assert.Empty(t, b)
}

func TestKind_Rank(t *testing.T) {
	assert.Less(t, Deletion.Rank(), Match.Rank())
	assert.Equal(t, Match.Rank(), Mismatch.Rank())
	assert.Less(t, Mismatch.Rank(), Insertion.Rank())

	da, db := Insertion.Consumes()
	assert.Equal(t, [2]int{0, 1}, [2]int{da, db})
}
