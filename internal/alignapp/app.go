// internal/alignapp/app.go
package alignapp

import (
	"context"
	"io"

	"tkfalign/internal/appcore"
	"tkfalign/internal/output"
	"tkfalign/internal/request"
)

var Tool = appcore.Tool{
	Name:  "tkf-align",
	Short: "Optimal TKF91 pairwise alignment",
	Long: `tkf-align reads one JSON request with TKF91 parameters, two nucleotide
sequences and a precision (float, double, mag, arb256 or high), and writes
an optimal alignment with its log-probability.`,
	Run: run,
}

func RunContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return appcore.Run(ctx, Tool, argv, stdin, stdout, stderr)
}

func run(ctx context.Context, env *appcore.Env) error {
	// Precision has no default here; only tkf-bench falls back to config.
	req, err := request.ReadAlign(env.In, "")
	if err != nil {
		return err
	}
	sol, err := env.Engine.Align(ctx, req.Params, req.A, req.B, req.Mode, req.RTol)
	if err != nil {
		return err
	}
	env.Log.Info("aligned",
		"precision", req.Mode.WireName(),
		"len_a", len(req.A), "len_b", len(req.B),
		"columns", len(sol.Alignment),
		"verified", sol.Verified,
		"log_probability", sol.Score.Value)
	return env.Emit(output.ToAPIAlign(req, sol))
}
