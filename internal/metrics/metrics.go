// Package metrics records the outcome of an update run as Prometheus gauges.
//
// The update command is a short-lived process, so instead of serving /metrics the [Recorder] writes
// its registry to a textfile for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/wrlog/internal/tasks"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wrlog"

// Recorder holds the gauges describing the most recent run.
type Recorder struct {
	registry *prometheus.Registry

	levelsFetched  *prometheus.GaugeVec
	dropped        prometheus.Gauge
	truncated      prometheus.Gauge
	appended       prometheus.Gauge
	changelistSize prometheus.Gauge
	duration       prometheus.Gauge
	lastSuccess    prometheus.Gauge
	success        prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		levelsFetched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "levels_fetched",
			Help:      "Snapshots fetched in the last run, by level kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "community_fetches_dropped",
			Help:      "Level fetches dropped in the last run.",
		}),
		truncated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_truncated",
			Help:      "1 if the last run abandoned fetches after a step timeout.",
		}),
		appended: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "changelist_appended",
			Help:      "Changelist entries appended by the last run.",
		}),
		changelistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "changelist_size",
			Help:      "Total changelist entries after the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last run succeeded, 0 otherwise.",
		}),
	}

	r.registry.MustRegister(
		r.levelsFetched, r.dropped, r.truncated, r.appended,
		r.changelistSize, r.duration, r.lastSuccess, r.success,
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSuccess records a completed run finished at now.
func (r *Recorder) ObserveSuccess(result *tasks.UpdateResult, now time.Time) {
	if f := result.Fetch; f != nil {
		r.levelsFetched.WithLabelValues("official").Set(float64(f.Official))
		r.levelsFetched.WithLabelValues("community").Set(float64(f.Community))
		r.dropped.Set(float64(f.Dropped))
		if f.Truncated {
			r.truncated.Set(1)
		} else {
			r.truncated.Set(0)
		}
	}
	r.appended.Set(float64(len(result.Appended)))
	r.changelistSize.Set(float64(result.ChangelistSize))
	r.duration.Set(result.Duration.Seconds())
	r.lastSuccess.Set(float64(now.Unix()))
	r.success.Set(1)
}

// ObserveFailure records a failed run that took elapsed.
//
// The last success timestamp is left out of the output rather than written as zero.
func (r *Recorder) ObserveFailure(elapsed time.Duration) {
	r.registry.Unregister(r.lastSuccess)
	r.duration.Set(elapsed.Seconds())
	r.success.Set(0)
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
