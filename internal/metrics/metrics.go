package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation sources.
const (
	SourceSession   = "session"
	SourceStateless = "stateless"
)

// Metrics holds the calculator's Prometheus collectors on a private registry.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Updates     *prometheus.CounterVec
	Totals      prometheus.Histogram

	registry *prometheus.Registry
}

// ObserveEvaluation counts one evaluation and records its total.
func (m *Metrics) ObserveEvaluation(source string, total int) {
	m.Evaluations.WithLabelValues(source).Inc()
	m.Totals.Observe(float64(total))
}

// ObserveUpdate counts one accepted attribute write.
func (m *Metrics) ObserveUpdate(field string) {
	m.Updates.WithLabelValues(field).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// New registers the collectors on a fresh registry. sessions reports the
// number of live sessions and may be nil.
func New(sessions func() int) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		Evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointscalc_evaluations_total",
				Help: "Total number of evaluations",
			},
			[]string{"source"},
		),
		Updates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointscalc_attribute_updates_total",
				Help: "Total number of accepted attribute updates",
			},
			[]string{"field"},
		),
		Totals: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pointscalc_evaluation_total_points",
				Help:    "Distribution of evaluated totals",
				Buckets: prometheus.LinearBuckets(0, 10, 14),
			},
		),
		registry: registry,
	}

	if sessions != nil {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "pointscalc_sessions_active",
				Help: "Number of live calculator sessions",
			},
			func() float64 { return float64(sessions()) },
		)
	}

	return m
}
