// Package metrics exposes prometheus collectors for the reactive core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolve outcomes.
const (
	ResolveRoot     = "root"
	ResolveCached   = "cached"
	ResolveRemerged = "remerged"
)

type Metrics struct {
	InitDuration *prometheus.HistogramVec
	Resolutions  *prometheus.CounterVec
	Fanout       prometheus.Histogram
}

// Default is used by the component package. It is not registered until
// Register is called.
var Default = New()

func New() *Metrics {
	return &Metrics{
		InitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "viewcore",
				Subsystem: "component",
				Name:      "init_duration_seconds",
				Help:      "Time spent initialising a component instance",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"component"},
		),

		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "viewcore",
				Subsystem: "options",
				Name:      "resolutions_total",
				Help:      "Option resolutions by outcome (root, cached, remerged)",
			},
			[]string{"outcome"},
		),

		Fanout: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "viewcore",
				Subsystem: "dep",
				Name:      "notify_fanout",
				Help:      "Number of subscribers updated per notification",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.InitDuration, m.Resolutions, m.Fanout} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveInit(component string, d time.Duration) {
	m.InitDuration.WithLabelValues(component).Observe(d.Seconds())
}

func (m *Metrics) ObserveResolve(outcome string) {
	m.Resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFanout(n int) {
	m.Fanout.Observe(float64(n))
}
