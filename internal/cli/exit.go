package cli

import (
	"context"
	"errors"

	"tkfalign/internal/engine"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1 // request rejected or could not be answered
	ExitUsage       = 2
	ExitOutput      = 3
	ExitTimedOut    = 124
	ExitInterrupted = 130
)

// UsageError marks bad flags, arguments or configuration.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// OutputError marks a failure to write the response.
type OutputError struct{ Err error }

func (e *OutputError) Error() string { return "write output: " + e.Err.Error() }
func (e *OutputError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a tool to its process exit code.
func ExitCode(err error) int {
	var usage *UsageError
	var output *OutputError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, engine.ErrTimedOut), errors.Is(err, context.DeadlineExceeded):
		return ExitTimedOut
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &output):
		return ExitOutput
	}
	return ExitFailure
}
