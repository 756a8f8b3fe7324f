package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics counts reconciliations per channel and view failures per entry.
// Each server owns its registry so tests can build many servers.
type metrics struct {
	registry        *prometheus.Registry
	reconciliations *prometheus.CounterVec
	viewFailures    *prometheus.CounterVec
	rejected        *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commitscope",
			Name:      "reconciliations_total",
			Help:      "Interactions applied to the selection state, by channel.",
		}, []string{"channel"}),
		viewFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commitscope",
			Name:      "view_failures_total",
			Help:      "Views that failed to update during a pass, by entry point.",
		}, []string{"entry"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commitscope",
			Name:      "rejected_interactions_total",
			Help:      "Interactions rejected before reaching the views, by entry point.",
		}, []string{"entry"}),
	}
	m.registry.MustRegister(m.reconciliations, m.viewFailures, m.rejected)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
