// Package metrics exposes Prometheus instruments for upstream calls and the
// two orchestrators.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"florafinder/internal/services"
)

// Metrics provides observability for upstream services and orchestrators.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Upstream call latency by service, operation, and outcome
	UpstreamLatency *prometheus.HistogramVec

	// Upstream call outcomes by service and operation
	UpstreamOutcomes *prometheus.CounterVec

	// Identification outcomes: ok, empty, error, invalid
	Identifications *prometheus.CounterVec

	IdentifyLatency prometheus.Histogram

	// Enrichment registry steps by lookup (conservation, habitat), source, and outcome
	EnrichmentSteps *prometheus.CounterVec
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers all instruments on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "florafinder_upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls by service and operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"service", "operation", "outcome"}),

		UpstreamOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "florafinder_upstream_requests_total",
			Help: "Total upstream API calls by service, operation, and outcome",
		}, []string{"service", "operation", "outcome"}),

		Identifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "florafinder_identifications_total",
			Help: "Total identification requests by outcome",
		}, []string{"outcome"}),

		IdentifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "florafinder_identify_duration_seconds",
			Help:    "Duration of full identification including image staging",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		EnrichmentSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "florafinder_enrichment_steps_total",
			Help: "Enrichment registry steps by lookup, source, and outcome",
		}, []string{"lookup", "source", "outcome"}),
	}
}

// ObserveUpstream records one upstream call. It satisfies services.Observer.
func (m *Metrics) ObserveUpstream(service, operation string, kind services.OutcomeKind, latency time.Duration) {
	if m == nil {
		return
	}
	outcome := kind.String()
	m.UpstreamLatency.WithLabelValues(service, operation, outcome).Observe(latency.Seconds())
	m.UpstreamOutcomes.WithLabelValues(service, operation, outcome).Inc()
}

// ObserveIdentification records one Identify call.
func (m *Metrics) ObserveIdentification(outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.Identifications.WithLabelValues(outcome).Inc()
	m.IdentifyLatency.Observe(latency.Seconds())
}

// ObserveEnrichmentStep records one registry step of an enrichment lookup.
func (m *Metrics) ObserveEnrichmentStep(lookup, source string, kind services.OutcomeKind) {
	if m != nil {
		m.EnrichmentSteps.WithLabelValues(lookup, source, kind.String()).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
