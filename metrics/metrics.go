// Package metrics exports session outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/ZaguanLabs/quicklang"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quicklang"

// Dispatch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder implements quicklang.Recorder on Prometheus collectors.
type Recorder struct {
	Rejections *prometheus.CounterVec
	Dispatches *prometheus.CounterVec
	Latency    *prometheus.HistogramVec
	Exercises  *prometheus.CounterVec
	Sessions   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_rejected_total",
				Help:      "Requests rejected before dispatch, by reason.",
			},
			[]string{"reason"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Translation requests sent to an engine, by outcome.",
			},
			[]string{"engine", "outcome"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of translation dispatches.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"engine"},
		),
		Exercises: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exercises_total",
				Help:      "Grammar exercise generations, by outcome.",
			},
			[]string{"engine", "grammar", "outcome"},
		),
		Sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Sessions currently held by the server.",
			},
		),
	}

	for _, c := range []prometheus.Collector{r.Rejections, r.Dispatches, r.Latency, r.Exercises, r.Sessions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RequestRejected counts a rejection.
func (r *Recorder) RequestRejected(reason string) {
	r.Rejections.WithLabelValues(reason).Inc()
}

// DispatchCompleted counts a dispatch and observes its duration.
func (r *Recorder) DispatchCompleted(engine quicklang.Engine, elapsed time.Duration, err error) {
	r.Dispatches.WithLabelValues(string(engine), outcome(err)).Inc()
	r.Latency.WithLabelValues(string(engine)).Observe(elapsed.Seconds())
}

// ExerciseGenerated counts an exercise generation.
func (r *Recorder) ExerciseGenerated(engine quicklang.Engine, grammar quicklang.GrammarContext, err error) {
	r.Exercises.WithLabelValues(string(engine), string(grammar), outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

var _ quicklang.Recorder = (*Recorder)(nil)
