// Package verify re-scores a proposed alignment in exact arithmetic and
// classifies it as optimal and/or canonical. It is the ground-truth oracle
// for the finite-precision modes.
package verify

import (
	"context"
	"math/big"

	"tkfalign/internal/alignment"
	"tkfalign/internal/dp"
	"tkfalign/internal/engine"
	"tkfalign/internal/model"
	"tkfalign/internal/precision"
)

// Result classifies one alignment.
type Result struct {
	IsOptimal   bool
	IsCanonical bool
	// Score is the alignment's own exact score; it is -Inf when the
	// alignment places an insertion directly after a deletion.
	Score precision.Score
	// Optimal is the exact optimum S* of the stripped sequences.
	Optimal      precision.Score
	OptimalCount *big.Int
}

// Verify checks the gapped rows rowA/rowB against the exact optimum under
// p. Malformed rows fail with alignment.ErrMalformed before any scoring.
// Optimality and canonical form are independent properties.
func Verify(ctx context.Context, eng *engine.Engine, p model.Parameters, rowA, rowB string) (Result, error) {
	aln, err := alignment.Parse(rowA, rowB)
	if err != nil {
		return Result{}, err
	}
	return VerifyAlignment(ctx, eng, p, aln)
}

// VerifyAlignment is Verify for an already parsed alignment.
func VerifyAlignment(ctx context.Context, eng *engine.Engine, p model.Parameters, aln alignment.Alignment) (Result, error) {
	a, b := aln.Strip()
	run, err := eng.Exact(ctx, p, a, b)
	if err != nil {
		return Result{}, err
	}
	ops := run.Ops()
	g := &run.Model.Gen

	s := dp.PathScore(ops, g, aln)
	optimal := s.Equal(run.Tableau.Score)
	return Result{
		IsOptimal:    optimal,
		IsCanonical:  Canonical(ops, g, run.Tableau, aln, optimal),
		Score:        precision.ExactScore(run.Model.Basis, s),
		Optimal:      run.Score(),
		OptimalCount: run.Tableau.CountOptimal(),
	}, nil
}
