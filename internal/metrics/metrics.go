// Package metrics records extraction counters for the Prometheus textfile
// collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of a single extraction run. A nil Recorder
// ignores all observations.
type Recorder struct {
	registry *prometheus.Registry

	LogsFetched        prometheus.Counter
	EventsDecoded      prometheus.Counter
	DecodeFailures     prometheus.Counter
	FetchDuration      prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge
}

// NewRecorder creates a Recorder on its own registry.
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = "swapextract"
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		LogsFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logs_fetched_total",
			Help:      "Logs returned by the log source.",
		}),
		EventsDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_decoded_total",
			Help:      "Swap events decoded successfully.",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Logs skipped because decoding failed.",
		}),
		FetchDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the log fetch.",
		}),
		LastSuccessSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveFetch counts fetched logs and records the fetch duration.
func (r *Recorder) ObserveFetch(logs int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.LogsFetched.Add(float64(logs))
	r.FetchDuration.Set(elapsed.Seconds())
}

// IncDecoded counts one decoded event.
func (r *Recorder) IncDecoded() {
	if r == nil {
		return
	}
	r.EventsDecoded.Inc()
}

// AddFailures counts skipped logs.
func (r *Recorder) AddFailures(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.DecodeFailures.Add(float64(n))
}

// MarkSuccess records the completion time of a run.
func (r *Recorder) MarkSuccess(now time.Time) {
	if r == nil {
		return
	}
	r.LastSuccessSeconds.Set(float64(now.Unix()))
}

// WriteTextfile writes all metrics in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
