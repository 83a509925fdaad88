package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts identifier API outcomes.
// Params: registered collectors for derivations and parse/resolve failures.
// Returns: counter handles shared by the handler.
type Metrics struct {
	derivations   *prometheus.CounterVec
	parseFailures prometheus.Counter
	resolveMisses prometheus.Counter
}

// NewMetrics creates and registers API counters.
// Params: target registerer (prometheus.DefaultRegisterer for production).
// Returns: initialized metrics handles.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ruleid",
			Name:      "derivations_total",
			Help:      "Identifiers derived, by variant.",
		}, []string{"variant"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ruleid",
			Name:      "identifier_parse_failures_total",
			Help:      "Malformed identifier strings received on resolve.",
		}),
		resolveMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ruleid",
			Name:      "resolve_misses_total",
			Help:      "Well-formed identifiers not present in the index.",
		}),
	}
	reg.MustRegister(m.derivations, m.parseFailures, m.resolveMisses)
	return m
}

// observeDerivation counts one successful derivation by identifier variant.
// Params: derived identifier variant flag.
// Returns: counter side-effect only.
func (m *Metrics) observeDerivation(native bool) {
	if m == nil {
		return
	}
	variant := "composite"
	if native {
		variant = "native"
	}
	m.derivations.WithLabelValues(variant).Inc()
}
