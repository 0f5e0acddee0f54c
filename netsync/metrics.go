package netsync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the engine's counters. A nil *Metrics records nothing.
type Metrics struct {
	Snapshots   prometheus.Counter
	Discarded   *prometheus.CounterVec
	Samples     *prometheus.CounterVec
	Corrections prometheus.Counter
	Entities    prometheus.Gauge
	TickSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Snapshots: f.NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "snapshots_total",
			Help:      "Entity snapshots accepted into a buffer or the local reconciler.",
		}),
		Discarded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "discarded_total",
			Help:      "Entity snapshots dropped, by reason.",
		}, []string{"reason"}),
		Samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "samples_total",
			Help:      "Remote entity samples, by interpolation mode.",
		}, []string{"mode"}),
		Corrections: f.NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "corrections_total",
			Help:      "Authoritative corrections applied to the local prediction.",
		}),
		Entities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "entities",
			Help:      "Entities in the registry.",
		}),
		TickSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arena",
			Subsystem: "netsync",
			Name:      "tick_seconds",
			Help:      "Time spent in Engine.Tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 10),
		}),
	}
}

const (
	discardRemoved   = "removed"
	discardMalformed = "malformed"
)

func (m *Metrics) snapshot() {
	if m != nil {
		m.Snapshots.Inc()
	}
}

func (m *Metrics) discard(reason string) {
	if m != nil {
		m.Discarded.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) sample(mode SampleMode) {
	if m != nil {
		m.Samples.WithLabelValues(mode.String()).Inc()
	}
}

func (m *Metrics) correction() {
	if m != nil {
		m.Corrections.Inc()
	}
}

func (m *Metrics) tick(entities int, seconds float64) {
	if m != nil {
		m.Entities.Set(float64(entities))
		m.TickSeconds.Observe(seconds)
	}
}
