// internal/benchapp/app.go
package benchapp

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"tkfalign/internal/appcore"
	"tkfalign/internal/bench"
	"tkfalign/internal/cli"
	"tkfalign/internal/metrics"
	"tkfalign/internal/output"
	"tkfalign/internal/request"
)

var Tool = appcore.Tool{
	Name:  "tkf-bench",
	Short: "Time repeated TKF91 alignments",
	Long: `tkf-bench reads one align request plus "samples" and runs that many
alignments one after another, reporting the elapsed nanoseconds of each.
The precision defaults to default_precision from the config file.`,
	Flags: func(fs *pflag.FlagSet, o *cli.Options) { cli.RegisterBench(fs, o) },
	Run:   run,
}

func RunContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return appcore.Run(ctx, Tool, argv, stdin, stdout, stderr)
}

func run(ctx context.Context, env *appcore.Env) error {
	req, err := request.ReadBench(env.In, env.Settings.DefaultPrecision)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	res, err := bench.Sample(ctx, env.Engine, bench.Request{
		Params: req.Params,
		A:      req.A,
		B:      req.B,
		Mode:   req.Mode,
		RTol:   req.RTol,
	}, req.Samples, rec)
	if path := env.Settings.MetricsTextfile; path != "" {
		if werr := rec.WriteTextfile(path); werr != nil {
			env.Log.Warn("metrics textfile not written", "path", path, "err", werr)
		}
	}
	if err != nil {
		return err
	}

	env.Log.Info("benchmarked",
		"precision", req.Mode.WireName(),
		"samples", len(res.Elapsed),
		"len_a", len(req.A), "len_b", len(req.B))
	return env.Emit(output.ToAPIBench(req, res))
}
