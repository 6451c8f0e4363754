// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"tkfalign/internal/config"
	"tkfalign/internal/logging"
)

// Options holds the raw command-line flags.
type Options struct {
	Input     string
	Config    string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
	Pretty    bool

	MetricsTextfile string // tkf-bench
	Workers         int    // tkf-batch
}

// Settings is the config file with every explicitly set flag applied on top.
type Settings struct {
	Input            string
	Timeout          time.Duration
	LogLevel         string
	LogFormat        string
	Pretty           bool
	DefaultPrecision string
	Workers          int
	MetricsTextfile  string
}

// Resolve loads the config named by --config (or $TKFALIGN_CONFIG) and
// overlays the flags the user set. Failures are usage errors.
func Resolve(fs *pflag.FlagSet, o Options) (Settings, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return Settings{}, &UsageError{Err: err}
	}
	s := Settings{
		Input:            o.Input,
		Timeout:          cfg.Timeout,
		LogLevel:         cfg.Log.Level,
		LogFormat:        cfg.Log.Format,
		Pretty:           cfg.Pretty,
		DefaultPrecision: cfg.DefaultPrecision,
		Workers:          cfg.Batch.Workers,
		MetricsTextfile:  cfg.Bench.MetricsTextfile,
	}
	if fs.Changed(FlagTimeout) {
		s.Timeout = o.Timeout
	}
	if fs.Changed(FlagLogLevel) {
		s.LogLevel = o.LogLevel
	}
	if fs.Changed(FlagLogFormat) {
		s.LogFormat = o.LogFormat
	}
	if fs.Changed(FlagPretty) {
		s.Pretty = o.Pretty
	}
	if fs.Changed(FlagWorkers) {
		s.Workers = o.Workers
	}
	if fs.Changed(FlagMetricsTextfile) {
		s.MetricsTextfile = o.MetricsTextfile
	}

	if err := s.validate(); err != nil {
		return Settings{}, &UsageError{Err: err}
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.Input == "" {
		return errors.New("--input must not be empty")
	}
	if s.Timeout < 0 {
		return errors.New("--timeout must be ≥ 0")
	}
	if s.Workers < 0 {
		return errors.New("--workers must be ≥ 0")
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid --log-format %q", s.LogFormat)
	}
	return nil
}
