// Package metrics exposes Prometheus collectors for latest-object resolutions.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles prometheus collectors used by the poller.
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	PagesListed        prometheus.Counter
	PaginationCapped   prometheus.Counter
	ResolutionDuration prometheus.Histogram
}

// New creates the collectors and registers them on registerer. Collectors
// already registered by an earlier call are reused, so several pollers can
// share one registry.
func New(registerer prometheus.Registerer) *Metrics {
	return &Metrics{
		Resolutions: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "s3poller_resolutions_total",
			Help: "Total number of latest-object resolutions by outcome.",
		}, []string{"outcome"})),
		PagesListed: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "s3poller_pages_listed_total",
			Help: "Total number of listing pages fetched.",
		})),
		PaginationCapped: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "s3poller_pagination_capped_total",
			Help: "Total number of resolutions stopped by the page cap.",
		})),
		ResolutionDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "s3poller_resolution_duration_seconds",
			Help:    "Latest-object resolution duration in seconds.",
			Buckets: prometheus.DefBuckets,
		})),
	}
}

// register registers c, or returns the equivalent collector registered before.
// Any other registration failure panics as MustRegister would.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	err := registerer.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// ObserveResolution records one finished resolution.
func (m *Metrics) ObserveResolution(outcome string, pages int, capped bool, elapsed time.Duration) {
	m.Resolutions.WithLabelValues(outcome).Inc()
	m.PagesListed.Add(float64(pages))
	if capped {
		m.PaginationCapped.Inc()
	}
	m.ResolutionDuration.Observe(elapsed.Seconds())
}
