package model

import "errors"

// Validation failures. They are always wrapped in a *ParamError that names
// the offending field; match them with errors.Is.
var (
	ErrMissingField     = errors.New("missing field")
	ErrNonPositiveValue = errors.New("numerator and denominator must be positive")
	ErrFrequencySum     = errors.New("nucleotide frequencies must sum to exactly 1")
	ErrRateOrdering     = errors.New("insertion rate lambda must be less than deletion rate mu")
)

// ParamError ties a validation failure to a parameter field such as "pc",
// "pc.denom" or "lambda".
type ParamError struct {
	Field string
	Err   error
}

func (e *ParamError) Error() string {
	return "parameters: " + e.Field + ": " + e.Err.Error()
}

func (e *ParamError) Unwrap() error { return e.Err }
