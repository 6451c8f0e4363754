// Package metrics exports benchmark timings as Prometheus metrics.
//
// Each Recorder owns a private registry, so concurrent benchmarks never
// share series. The registry can be written out in the node-exporter
// textfile format for scraping.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tkfalign"

// Recorder collects bench samples.
type Recorder struct {
	reg *prometheus.Registry

	// alignDuration measures one alignment. Labels: precision
	alignDuration *prometheus.HistogramVec
	// samples counts finished samples. Labels: precision, outcome (ok, error)
	samples *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		alignDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bench",
			Name:      "align_duration_seconds",
			Help:      "Wall time of one benchmarked alignment in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"precision"}),
		samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bench",
			Name:      "samples_total",
			Help:      "Benchmark samples by outcome",
		}, []string{"precision", "outcome"}),
	}
}

// Observe records a successful sample.
func (r *Recorder) Observe(precision string, d time.Duration) {
	r.alignDuration.WithLabelValues(precision).Observe(d.Seconds())
	r.samples.WithLabelValues(precision, "ok").Inc()
}

// Failure records a failed sample.
func (r *Recorder) Failure(precision string) {
	r.samples.WithLabelValues(precision, "error").Inc()
}

// Gatherer exposes the registry, e.g. for tests or an HTTP handler.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
