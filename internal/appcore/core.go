// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tkfalign/internal/cli"
	"tkfalign/internal/engine"
	"tkfalign/internal/jsonutil"
	"tkfalign/internal/logging"
	"tkfalign/internal/version"
	"tkfalign/internal/writers"
)

// Tool describes one executable.
type Tool struct {
	Name  string
	Short string
	Long  string
	// Flags registers tool-specific flags next to the shared ones.
	Flags func(fs *pflag.FlagSet, o *cli.Options)
	// Run answers one invocation. It must not write to Env.Out before it
	// knows the request succeeded.
	Run func(ctx context.Context, env *Env) error
}

// Env is what a Tool sees of the process.
type Env struct {
	Settings cli.Settings
	In       io.Reader
	Log      *slog.Logger
	Engine   *engine.Engine

	out *bufio.Writer
}

// Out is the buffered standard output.
func (e *Env) Out() io.Writer { return e.out }

// Emit writes v as the single JSON response.
func (e *Env) Emit(v any) error {
	if err := jsonutil.Encode(e.out, v, e.Settings.Pretty); err != nil {
		return &cli.OutputError{Err: err}
	}
	return nil
}

// Run parses argv, resolves settings, opens the input and calls t.Run.
// stdout receives the response only when the invocation succeeds; on
// failure the error text goes to stderr and the exit code follows
// cli.ExitCode.
func Run(parent context.Context, t Tool, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	eng := engine.New(engine.Config{})

	var opts cli.Options
	cmd := &cobra.Command{
		Use:           t.Name,
		Short:         t.Short,
		Long:          t.Long,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &cli.UsageError{Err: fmt.Errorf("unexpected argument %q (requests are read from --input)", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.Resolve(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			log, err := logging.New(stderr, logging.Config{Level: s.LogLevel, JSON: s.LogFormat == "json", Tool: t.Name})
			if err != nil {
				return &cli.UsageError{Err: err}
			}
			in, closeIn, err := openInput(s.Input, stdin)
			if err != nil {
				return err
			}
			defer closeIn()

			ctx := cmd.Context()
			if s.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.Timeout)
				defer cancel()
			}

			env := &Env{Settings: s, In: in, Log: log, Engine: eng, out: outw}
			start := time.Now()
			if err := t.Run(ctx, env); err != nil {
				log.Debug("request failed", "err", err, "elapsed", time.Since(start))
				return err
			}
			log.Debug("request done", "elapsed", time.Since(start))
			return nil
		},
	}
	cli.Register(cmd.Flags(), &opts)
	if t.Flags != nil {
		t.Flags(cmd.Flags(), &opts)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cli.UsageError{Err: err}
	})
	cmd.SetArgs(argv)
	cmd.SetIn(stdin)
	cmd.SetOut(outw)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(parent); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", t.Name, err)
		return cli.ExitCode(err)
	}
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return cli.ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", t.Name, &cli.OutputError{Err: err})
		return cli.ExitOutput
	}
	return cli.ExitOK
}

// openInput opens name, where "-" is stdin.
func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, &cli.UsageError{Err: err}
	}
	return f, func() { _ = f.Close() }, nil
}
