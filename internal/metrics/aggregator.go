// internal/metrics/aggregator.go
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mwiater/xferbench/internal/logging"
)

// Recorder collects per-method round-trip measurements. Each Recorder owns a
// private registry, so concurrent orchestrators never share series.
type Recorder struct {
	mutex    sync.Mutex
	registry *prometheus.Registry
	running  map[string]*RunningStat

	roundTrip    *prometheus.HistogramVec
	iterations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	payloadBytes prometheus.Gauge
	runs         prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		running:  make(map[string]*RunningStat),
		roundTrip: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "xferbench",
			Name:      "round_trip_seconds",
			Help:      "Round-trip latency of one boundary transfer, by method.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 24),
		}, []string{"method"}),
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xferbench",
			Name:      "iterations_total",
			Help:      "Completed benchmark iterations, by method.",
		}, []string{"method"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xferbench",
			Name:      "run_failures_total",
			Help:      "Failed benchmark runs, by reason.",
		}, []string{"reason"}),
		payloadBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "xferbench",
			Name:      "payload_bytes",
			Help:      "UTF-8 size of the payload used by the latest run.",
		}),
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "xferbench",
			Name:      "runs_total",
			Help:      "Benchmark runs started.",
		}),
	}
}

// StartRun clears the running statistics and records the payload size.
func (r *Recorder) StartRun(payloadBytes int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.running = make(map[string]*RunningStat)
	r.payloadBytes.Set(float64(payloadBytes))
	r.runs.Inc()
}

// Record adds one round-trip sample for method.
func (r *Recorder) Record(method string, elapsed time.Duration) {
	r.roundTrip.WithLabelValues(method).Observe(elapsed.Seconds())
	r.iterations.WithLabelValues(method).Inc()

	r.mutex.Lock()
	defer r.mutex.Unlock()
	rs, ok := r.running[method]
	if !ok {
		rs = &RunningStat{}
		r.running[method] = rs
	}
	rs.Update(float64(elapsed) / float64(time.Millisecond))
}

// RecordFailure counts a failed run under reason.
func (r *Recorder) RecordFailure(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

// Running returns a copy of the running millisecond statistics for method.
func (r *Recorder) Running(method string) RunningStat {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if rs, ok := r.running[method]; ok {
		return *rs
	}
	return RunningStat{}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format, suitable for
// a node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	logging.LogEvent("[METRICS] Metrics written to %s", path)
	return nil
}
