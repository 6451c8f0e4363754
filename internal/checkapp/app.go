// internal/checkapp/app.go
package checkapp

import (
	"context"
	"io"

	"tkfalign/internal/appcore"
	"tkfalign/internal/output"
	"tkfalign/internal/request"
	"tkfalign/internal/verify"
)

var Tool = appcore.Tool{
	Name:  "tkf-check",
	Short: "Check a TKF91 alignment for optimality and canonical form",
	Long: `tkf-check reads one JSON request with TKF91 parameters and a gapped
alignment (sequence_a over sequence_b), rescores it exactly, and reports
whether it is optimal, whether it is in canonical form, and how many
optimal alignments exist.`,
	Run: run,
}

func RunContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return appcore.Run(ctx, Tool, argv, stdin, stdout, stderr)
}

func run(ctx context.Context, env *appcore.Env) error {
	req, err := request.ReadCheck(env.In)
	if err != nil {
		return err
	}
	res, err := verify.Verify(ctx, env.Engine, req.Params, req.RowA, req.RowB)
	if err != nil {
		return err
	}
	env.Log.Info("checked",
		"columns", len(req.RowA),
		"optimal", res.IsOptimal,
		"canonical", res.IsCanonical,
		"optimal_count", res.OptimalCount.String())
	return env.Emit(output.ToAPICheck(res))
}
