package cli

import "github.com/spf13/pflag"

// Flag names shared by the tools.
const (
	FlagInput           = "input"
	FlagConfig          = "config"
	FlagTimeout         = "timeout"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagPretty          = "pretty"
	FlagMetricsTextfile = "metrics-textfile"
	FlagWorkers         = "workers"
)

// Register wires the flags every tool accepts onto fs.
func Register(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.Input, FlagInput, "i", "-", "request file ('-' = stdin)")
	fs.StringVar(&o.Config, FlagConfig, "", "YAML config file (default $TKFALIGN_CONFIG)")
	fs.DurationVar(&o.Timeout, FlagTimeout, 0, "give up after this long (0 = no limit)")
	fs.StringVar(&o.LogLevel, FlagLogLevel, "info", "log level: debug | info | warn | error")
	fs.StringVar(&o.LogFormat, FlagLogFormat, "text", "log format on stderr: text | json")
	fs.BoolVar(&o.Pretty, FlagPretty, false, "indent JSON output")
}

// RegisterBench adds the tkf-bench flags.
func RegisterBench(fs *pflag.FlagSet, o *Options) {
	fs.StringVar(&o.MetricsTextfile, FlagMetricsTextfile, "", "write Prometheus textfile metrics here")
}

// RegisterBatch adds the tkf-batch flags.
func RegisterBatch(fs *pflag.FlagSet, o *Options) {
	fs.IntVarP(&o.Workers, FlagWorkers, "w", 0, "concurrent requests (0 = all CPUs)")
}
