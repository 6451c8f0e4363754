// internal/batchapp/app.go
package batchapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"tkfalign/internal/appcore"
	"tkfalign/internal/cli"
	"tkfalign/internal/jsonlutil"
	"tkfalign/internal/output"
	"tkfalign/internal/request"
	"tkfalign/internal/verify"
	"tkfalign/internal/writers"
	"tkfalign/pkg/api"
)

var Tool = appcore.Tool{
	Name:  "tkf-batch",
	Short: "Run many align and check requests",
	Long: `tkf-batch reads JSON Lines, one request per line with "op" set to
"align" or "check", answers them concurrently and writes one result line
per request in input order. A failing request is reported in its result
line and does not stop the batch.`,
	Flags: func(fs *pflag.FlagSet, o *cli.Options) { cli.RegisterBatch(fs, o) },
	Run:   run,
}

func RunContext(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return appcore.Run(ctx, Tool, argv, stdin, stdout, stderr)
}

func run(ctx context.Context, env *appcore.Env) error {
	workers := env.Settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	lines, writeErr := writers.StartBatchJSONLWriter(env.Out(), workers*4)

	// pending holds one result slot per request in input order; the
	// forwarder waits on each slot in turn.
	pending := make(chan chan api.BatchResultV1, workers*4)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for slot := range pending {
			lines <- <-slot
		}
		close(lines)
	}()

	var g errgroup.Group
	g.SetLimit(workers)
	var failed atomic.Int64
	total := 0
	readErr := jsonlutil.ForEachLine(env.In, func(n int, line []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data := bytes.Clone(line)
		slot := make(chan api.BatchResultV1, 1)
		pending <- slot
		total++
		g.Go(func() error {
			res := handle(ctx, env, n, data)
			if res.Error != "" {
				failed.Add(1)
				env.Log.Warn("request failed", "line", n, "op", res.Op, "err", res.Error)
			}
			slot <- res
			return nil
		})
		return nil
	})
	_ = g.Wait()
	close(pending)
	<-forwarded
	werr := <-writeErr

	for _, err := range []error{ctx.Err(), readErr} {
		if err != nil {
			return err
		}
	}
	if werr != nil {
		return &cli.OutputError{Err: werr}
	}
	env.Log.Info("batch done", "requests", total, "workers", workers, "failed", failed.Load())
	return nil
}

// handle answers one line. Every failure ends up in the result's Error.
func handle(ctx context.Context, env *appcore.Env, n int, data []byte) api.BatchResultV1 {
	res := api.BatchResultV1{Line: n}
	fail := func(err error) api.BatchResultV1 {
		res.Error = err.Error()
		return res
	}

	var op api.BatchOpV1
	if err := json.Unmarshal(data, &op); err != nil {
		return fail(fmt.Errorf("%w: %w", request.ErrInvalidRequest, err))
	}
	if err := request.Struct(&op); err != nil {
		return fail(err)
	}
	res.Op = op.Op

	switch op.Op {
	case api.OpAlign:
		var w api.BatchAlignV1
		if err := request.Decode(bytes.NewReader(data), &w); err != nil {
			return fail(err)
		}
		req, err := request.ToAlign(w.AlignRequestV1, "")
		if err != nil {
			return fail(err)
		}
		sol, err := env.Engine.Align(ctx, req.Params, req.A, req.B, req.Mode, req.RTol)
		if err != nil {
			return fail(err)
		}
		v := output.ToAPIAlign(req, sol)
		res.Align = &v

	case api.OpCheck:
		var w api.BatchCheckV1
		if err := request.Decode(bytes.NewReader(data), &w); err != nil {
			return fail(err)
		}
		req, err := request.ToCheck(w.CheckRequestV1)
		if err != nil {
			return fail(err)
		}
		vr, err := verify.Verify(ctx, env.Engine, req.Params, req.RowA, req.RowB)
		if err != nil {
			return fail(err)
		}
		v := output.ToAPICheck(vr)
		res.Check = &v
	}
	return res
}
