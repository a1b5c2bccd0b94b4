// Package metrics records conversion counters and latencies with Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for conversions.
const (
	OutcomeConverted = "converted"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder bundles the conversion metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	Conversions   *prometheus.CounterVec
	RowsConverted *prometheus.CounterVec
	Notices       prometheus.Counter
	Duration      *prometheus.HistogramVec
	Strategy      *prometheus.GaugeVec
}

// NewRecorder registers the conversion metrics against reg, defaulting to
// a fresh registry when nil.
func NewRecorder(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Recorder{
		gatherer: reg,
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barytime_conversions_total",
			Help: "Exposure conversions, labeled by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		RowsConverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barytime_rows_converted_total",
			Help: "Timestamp rows converted to TDB, labeled by strategy.",
		}, []string{"strategy"}),
		Notices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barytime_notices_total",
			Help: "Degraded-mode notices emitted during conversions.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "barytime_conversion_duration_seconds",
			Help:    "Wall time of one exposure conversion in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"strategy"}),
		Strategy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "barytime_strategy_active",
			Help: "1 for the strategy selected at startup.",
		}, []string{"strategy"}),
	}

	for _, c := range []prometheus.Collector{r.Conversions, r.RowsConverted, r.Notices, r.Duration, r.Strategy} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// StrategySelected marks the active strategy.
func (r *Recorder) StrategySelected(name string) {
	if r == nil {
		return
	}
	r.Strategy.Reset()
	r.Strategy.WithLabelValues(name).Set(1)
}

// ObserveConversion records one conversion attempt.
func (r *Recorder) ObserveConversion(strategy, outcome string, rows int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Conversions.WithLabelValues(strategy, outcome).Inc()
	if outcome == OutcomeConverted {
		r.RowsConverted.WithLabelValues(strategy).Add(float64(rows))
	}
	r.Duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// AddNotices adds n degraded-mode notices.
func (r *Recorder) AddNotices(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.Notices.Add(float64(n))
}

// WriteTextfile writes all metrics in the text exposition format for the
// node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
