// internal/output/json.go
package output

import (
	"math"

	"tkfalign/internal/bench"
	"tkfalign/internal/engine"
	"tkfalign/internal/precision"
	"tkfalign/internal/request"
	"tkfalign/internal/verify"
	"tkfalign/pkg/api"
)

// ToAPIAlign converts an engine solution to the stable wire schema (v1).
func ToAPIAlign(req request.Align, sol engine.Solution) api.AlignResponseV1 {
	rowA, rowB := sol.Alignment.Rows()
	v := api.AlignResponseV1{
		Parameters:     req.Wire,
		SequenceA:      rowA,
		SequenceB:      rowB,
		Precision:      req.Mode.WireName(),
		Verified:       sol.Verified,
		LogProbability: sol.Score.Value,
		Expression:     sol.Score.Expression,
	}
	if sol.Score.Mode == precision.Exact || sol.Score.Mode == precision.Certified {
		v.Bounds = &[2]float64{sol.Score.Enclosure.Lo, sol.Score.Enclosure.Hi}
	}
	return v
}

// ToAPICheck converts a verification result (v1). The alignment's own
// log-probability is null when it is not a legal path.
func ToAPICheck(res verify.Result) api.CheckResponseV1 {
	return api.CheckResponseV1{
		AlignmentIsOptimal:    res.IsOptimal,
		AlignmentIsCanonical:  res.IsCanonical,
		OptimalCount:          res.OptimalCount.String(),
		LogProbability:        finite(res.Score.Value),
		OptimalLogProbability: res.Optimal.Value,
	}
}

// ToAPIBench reports the alignment of the last sample with every elapsed
// time in nanosecond ticks.
func ToAPIBench(req request.Bench, res bench.Result) api.BenchResponseV1 {
	rowA, rowB := res.Solution.Alignment.Rows()
	ticks := make([]int64, len(res.Elapsed))
	for i, d := range res.Elapsed {
		ticks[i] = d.Nanoseconds()
	}
	return api.BenchResponseV1{
		Parameters:     req.Wire,
		SequenceA:      rowA,
		SequenceB:      rowB,
		Precision:      req.Mode.WireName(),
		ElapsedTicks:   ticks,
		TicksPerSecond: api.TicksPerSecond,
	}
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}
