// Package metrics defines the Prometheus collectors for search, stream
// resolution and downloads.
//
// A nil *Metrics is valid and records nothing, so components can take
// one unconditionally:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	m.ObserveSearch("soundcloud", metrics.OutcomeOK)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds the collectors.
type Metrics struct {
	SearchesTotal   *prometheus.CounterVec
	DownloadsTotal  *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which suits tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musichelper_searches_total",
				Help: "Total number of backend searches by outcome",
			},
			[]string{"backend", "outcome"},
		),
		DownloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musichelper_downloads_total",
				Help: "Total number of track downloads by outcome",
			},
			[]string{"kind", "outcome"},
		),
		ResolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "musichelper_resolve_duration_seconds",
				Help:    "Time spent resolving stream URLs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// ObserveSearch counts one backend search.
func (m *Metrics) ObserveSearch(backend, outcome string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(backend, outcome).Inc()
}

// ObserveDownload counts one download attempt.
func (m *Metrics) ObserveDownload(kind, outcome string) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveResolve records how long a stream resolution took.
func (m *Metrics) ObserveResolve(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.ResolveDuration.WithLabelValues(kind).Observe(d.Seconds())
}
