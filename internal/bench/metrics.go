package bench

import (
	"strconv"

	"github.com/gravitational/trace"
	"github.com/prometheus/client_golang/prometheus"
)

var metricLabels = []string{"backend", "threshold", "processors", "capacity"}

// NewRegistry returns a registry holding one sample per result for the
// pool counters and timing summary.
func NewRegistry(results []Result) (*prometheus.Registry, error) {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sortbench",
			Name:      name,
			Help:      help,
		}, metricLabels)
	}
	var (
		spawned = gauge("tasks_spawned", "Tasks that ran on their own goroutine.")
		inlined = gauge("tasks_inlined", "Tasks executed inline by the caller.")
		peak    = gauge("tasks_peak", "Highest number of outstanding spawned tasks.")
		mean    = gauge("sort_seconds_mean", "Mean wall time of one sort.")
		stdDev  = gauge("sort_seconds_stddev", "Standard deviation of the sort wall time.")
	)
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{spawned, inlined, peak, mean, stdDev} {
		if err := registry.Register(c); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	for _, r := range results {
		labels := prometheus.Labels{
			"backend":    string(r.Backend),
			"threshold":  strconv.Itoa(r.Threshold),
			"processors": strconv.Itoa(r.Processors),
			"capacity":   strconv.Itoa(r.Capacity),
		}
		spawned.With(labels).Set(float64(r.Pool.Spawned))
		inlined.With(labels).Set(float64(r.Pool.Inlined))
		peak.With(labels).Set(float64(r.Pool.Peak))
		mean.With(labels).Set(r.Timing.Mean.Seconds())
		stdDev.With(labels).Set(r.Timing.StdDev.Seconds())
	}
	return registry, nil
}

// WriteMetrics writes the results to path in the Prometheus text format.
func WriteMetrics(path string, results []Result) error {
	registry, err := NewRegistry(results)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(prometheus.WriteToTextfile(path, registry))
}
