package engine

import (
	"context"
	"errors"
	"fmt"

	"tkfalign/internal/alignment"
	"tkfalign/internal/ball"
	"tkfalign/internal/dp"
	"tkfalign/internal/model"
	"tkfalign/internal/precision"
	"tkfalign/internal/runutil"
	"tkfalign/internal/symbolic"
	"tkfalign/internal/tkf91"
)

// ErrTimedOut is returned when the caller's deadline expires mid-alignment.
var ErrTimedOut = errors.New("timed out")

type Config struct {
	// ModelCache bounds how many exact models are kept between calls.
	// Zero picks a small default.
	ModelCache int
}

// Engine is safe for concurrent use. Exact models are built once per
// parameter set and shared.
type Engine struct {
	cfg    Config
	models *runutil.LRU[string, *tkf91.Exact]
}

func New(c Config) *Engine {
	return &Engine{cfg: c, models: runutil.NewLRU[string, *tkf91.Exact](c.ModelCache)}
}

// Solution is one optimal alignment with its score.
type Solution struct {
	Score     precision.Score
	Alignment alignment.Alignment
	// Verified is set when the score is guaranteed: always in Exact mode,
	// in Certified mode when every traceback decision was separated or the
	// exact reference agreed, and in Double/Single mode when the exact
	// reference agreed within rtol.
	Verified bool
	// Reference is the exact optimum when it was computed.
	Reference *precision.Score
}

// ExactRun is a filled exact tableau and the model it was computed with.
type ExactRun struct {
	Model   *tkf91.Exact
	Tableau *dp.Tableau[symbolic.Vector]
}

// Ops returns the arithmetic of the run's basis.
func (r *ExactRun) Ops() dp.Exact { return dp.Exact{Basis: r.Model.Basis} }

// Score is the exact optimum.
func (r *ExactRun) Score() precision.Score {
	return precision.ExactScore(r.Model.Basis, r.Tableau.Score)
}

// Model returns the exact generators for p, building them on first use.
func (e *Engine) Model(p model.Parameters) (*tkf91.Exact, error) {
	key := p.String()
	if m, ok := e.models.Get(key); ok {
		return m, nil
	}
	m, err := tkf91.NewExact(p)
	if err != nil {
		return nil, err
	}
	e.models.Put(key, m)
	return m, nil
}

// Exact fills the exact tableau of a against b.
func (e *Engine) Exact(ctx context.Context, p model.Parameters, a, b alignment.Sequence) (*ExactRun, error) {
	m, err := e.Model(p)
	if err != nil {
		return nil, err
	}
	tab, err := dp.Fill(ctx, dp.Exact{Basis: m.Basis}, &m.Gen, a, b)
	if err != nil {
		return nil, mapCtx(err)
	}
	return &ExactRun{Model: m, Tableau: tab}, nil
}

// Align computes an optimal alignment of a and b under mode.
//
// Exact is verified by construction. Certified is verified when its
// traceback never had to choose between overlapping enclosures; otherwise,
// and for Double/Single with rtol > 0, the exact optimum is computed and the
// score must match it under the precision policy or Align fails with
// precision.ErrPrecisionFailure. Double/Single with rtol = 0 skip the
// reference and report Verified=false.
func (e *Engine) Align(ctx context.Context, p model.Parameters, a, b alignment.Sequence, mode precision.Mode, rtol float64) (Solution, error) {
	pol, err := precision.NewPolicy(mode, rtol)
	if err != nil {
		return Solution{}, err
	}

	switch mode {
	case precision.Exact:
		run, err := e.Exact(ctx, p, a, b)
		if err != nil {
			return Solution{}, err
		}
		aln, _ := run.Tableau.Traceback()
		ref := run.Score()
		return Solution{Score: ref, Alignment: aln, Verified: true, Reference: &ref}, nil

	case precision.Certified:
		m, err := e.Model(p)
		if err != nil {
			return Solution{}, err
		}
		g := tkf91.Map(m.Gen, m.Basis.Interval)
		tab, err := dp.Fill[ball.Interval](ctx, dp.Certified{}, &g, a, b)
		if err != nil {
			return Solution{}, mapCtx(err)
		}
		aln, ambiguous := tab.Traceback()
		sol := Solution{Score: precision.CertifiedScore(tab.Score), Alignment: aln, Verified: !ambiguous}
		if !ambiguous {
			return sol, nil
		}
		return e.reconcile(ctx, p, a, b, pol, sol)

	case precision.Double:
		g := tkf91.Native[float64](p)
		tab, err := dp.Fill[float64](ctx, dp.Float[float64]{}, &g, a, b)
		if err != nil {
			return Solution{}, mapCtx(err)
		}
		aln, _ := tab.Traceback()
		return e.finish(ctx, p, a, b, pol, Solution{Score: precision.FloatScore(mode, tab.Score), Alignment: aln})

	case precision.Single:
		g := tkf91.Native[float32](p)
		tab, err := dp.Fill[float32](ctx, dp.Float[float32]{}, &g, a, b)
		if err != nil {
			return Solution{}, mapCtx(err)
		}
		aln, _ := tab.Traceback()
		return e.finish(ctx, p, a, b, pol, Solution{Score: precision.FloatScore(mode, float64(tab.Score)), Alignment: aln})
	}
	return Solution{}, fmt.Errorf("%w: %v", precision.ErrUnknownMode, mode)
}

func (e *Engine) finish(ctx context.Context, p model.Parameters, a, b alignment.Sequence, pol precision.Policy, sol Solution) (Solution, error) {
	if pol.RTol == 0 {
		return sol, nil
	}
	return e.reconcile(ctx, p, a, b, pol, sol)
}

// reconcile checks sol against the exact optimum. When the reported
// alignment is not itself optimal it is replaced by the exact traceback.
func (e *Engine) reconcile(ctx context.Context, p model.Parameters, a, b alignment.Sequence, pol precision.Policy, sol Solution) (Solution, error) {
	run, err := e.Exact(ctx, p, a, b)
	if err != nil {
		return Solution{}, err
	}
	ref := run.Score()
	ok, err := pol.Equal(sol.Score, ref)
	if err != nil {
		return Solution{}, err
	}
	if !ok {
		return Solution{}, fmt.Errorf("%w: %s score %.17g differs from exact %.17g beyond rtol %g",
			precision.ErrPrecisionFailure, pol.Mode, sol.Score.Value, ref.Value, pol.RTol)
	}

	ops := run.Ops()
	if !dp.PathScore(ops, &run.Model.Gen, sol.Alignment).Equal(run.Tableau.Score) {
		sol.Alignment, _ = run.Tableau.Traceback()
	}
	sol.Verified = true
	sol.Reference = &ref
	return sol, nil
}

// mapCtx turns a deadline into ErrTimedOut and leaves cancellation alone.
func mapCtx(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimedOut, err)
	}
	return err
}
