// pkg/api/tkf91_v1.go
package api

import "math/big"

// Stable JSON schemas for tkf-align, tkf-check, tkf-bench and tkf-batch.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".

// RationalV1 is an exact rational. Both parts are JSON integers of any size.
type RationalV1 struct {
	Num   *big.Int `json:"num"`
	Denom *big.Int `json:"denom"`
}

// ParametersV1 holds the seven TKF91 parameters.
type ParametersV1 struct {
	PA     *RationalV1 `json:"pa"`
	PC     *RationalV1 `json:"pc"`
	PG     *RationalV1 `json:"pg"`
	PT     *RationalV1 `json:"pt"`
	Lambda *RationalV1 `json:"lambda"`
	Mu     *RationalV1 `json:"mu"`
	Tau    *RationalV1 `json:"tau"`
}

// AlignRequestV1 asks for an optimal alignment of two ungapped sequences.
type AlignRequestV1 struct {
	Parameters *ParametersV1 `json:"parameters"`
	SequenceA  *string       `json:"sequence_a" validate:"required"`
	SequenceB  *string       `json:"sequence_b" validate:"required"`
	Precision  string        `json:"precision"` // float | double | mag | arb256 | high
	RTol       *float64      `json:"rtol,omitempty" validate:"omitempty,gte=0"`
}

// AlignResponseV1 carries the gapped optimal alignment.
type AlignResponseV1 struct {
	Parameters     *ParametersV1 `json:"parameters"`
	SequenceA      string        `json:"sequence_a"`
	SequenceB      string        `json:"sequence_b"`
	Precision      string        `json:"precision"`
	Verified       bool          `json:"verified"`
	LogProbability float64       `json:"log_probability"`
	// Bounds is the rigorous enclosure [lo, hi] for mag and exact modes.
	Bounds *[2]float64 `json:"log_probability_bounds,omitempty"`
	// Expression is the exact probability as a product of atom powers.
	Expression string `json:"probability_expression,omitempty"`
}

// CheckRequestV1 asks whether a gapped alignment is optimal and canonical.
type CheckRequestV1 struct {
	Parameters *ParametersV1 `json:"parameters"`
	SequenceA  *string       `json:"sequence_a" validate:"required"`
	SequenceB  *string       `json:"sequence_b" validate:"required"`
}

type CheckResponseV1 struct {
	AlignmentIsOptimal   bool   `json:"alignment_is_optimal"`
	AlignmentIsCanonical bool   `json:"alignment_is_canonical"`
	OptimalCount         string `json:"number_of_optimal_alignments"` // decimal, may exceed 2^64
	// LogProbability is null when the alignment is not a legal TKF91 path.
	LogProbability        *float64 `json:"log_probability"`
	OptimalLogProbability float64  `json:"optimal_log_probability"`
}

// BenchRequestV1 times Samples sequential alignments. Precision defaults to
// the configured default_precision.
type BenchRequestV1 struct {
	AlignRequestV1
	Samples *int `json:"samples" validate:"required"`
}

// TicksPerSecond converts elapsed_ticks to seconds. Ticks are nanoseconds.
const TicksPerSecond = 1_000_000_000

type BenchResponseV1 struct {
	Parameters     *ParametersV1 `json:"parameters"`
	SequenceA      string        `json:"sequence_a"`
	SequenceB      string        `json:"sequence_b"`
	Precision      string        `json:"precision"`
	ElapsedTicks   []int64       `json:"elapsed_ticks"` // one per sample
	TicksPerSecond int64         `json:"ticks_per_second"`
}

// Batch operations.
const (
	OpAlign = "align"
	OpCheck = "check"
)

// BatchOpV1 selects the operation of one JSONL batch line.
type BatchOpV1 struct {
	Op string `json:"op" validate:"required,oneof=align check"`
}

type BatchAlignV1 struct {
	Op string `json:"op"`
	AlignRequestV1
}

type BatchCheckV1 struct {
	Op string `json:"op"`
	CheckRequestV1
}

// BatchResultV1 is one output line; Line is 1-based and matches the input.
type BatchResultV1 struct {
	Line  int              `json:"line"`
	Op    string           `json:"op,omitempty"`
	Align *AlignResponseV1 `json:"align,omitempty"`
	Check *CheckResponseV1 `json:"check,omitempty"`
	Error string           `json:"error,omitempty"`
}
