// Package bench times repeated alignments. Samples run strictly one after
// another so that they never compete for the CPU.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tkfalign/internal/alignment"
	"tkfalign/internal/engine"
	"tkfalign/internal/model"
	"tkfalign/internal/precision"
)

var ErrInvalidSamples = errors.New("samples must be a positive integer")

// SampleError reports which sample aborted the batch.
type SampleError struct {
	Index int
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d: %v", e.Index, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

// Observer receives per-sample outcomes; *metrics.Recorder satisfies it.
type Observer interface {
	Observe(precision string, d time.Duration)
	Failure(precision string)
}

// Request is one alignment problem to time.
type Request struct {
	Params model.Parameters
	A, B   alignment.Sequence
	Mode   precision.Mode
	RTol   float64
}

// Result holds the elapsed time of every sample and the solution of the
// last one.
type Result struct {
	Elapsed  []time.Duration
	Solution engine.Solution
}

// Sample aligns req n times. The first failure aborts the batch and is
// returned as a *SampleError; no partial result is returned.
func Sample(ctx context.Context, eng *engine.Engine, req Request, n int, obs Observer) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w (got %d)", ErrInvalidSamples, n)
	}
	label := req.Mode.WireName()
	res := Result{Elapsed: make([]time.Duration, 0, n)}
	for i := 0; i < n; i++ {
		start := time.Now()
		sol, err := eng.Align(ctx, req.Params, req.A, req.B, req.Mode, req.RTol)
		d := time.Since(start)
		if err != nil {
			if obs != nil {
				obs.Failure(label)
			}
			return Result{}, &SampleError{Index: i, Err: err}
		}
		if obs != nil {
			obs.Observe(label, d)
		}
		res.Elapsed = append(res.Elapsed, d)
		res.Solution = sol
	}
	return res, nil
}
