// Package metrics holds the Prometheus collectors for the storefront.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	CartMutations       *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	Checkouts           prometheus.Counter
	CatalogRefresh      *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sixshop",
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sixshop",
			Name:      "persistence_failures_total",
			Help:      "Encrypted store failures by operation (load, save).",
		}, []string{"op"}),
		Checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sixshop",
			Name:      "checkouts_total",
			Help:      "Completed mock checkouts.",
		}),
		CatalogRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sixshop",
			Name:      "catalog_refresh_total",
			Help:      "Catalog refreshes by resulting status.",
		}, []string{"status"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sixshop",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.CartMutations, m.PersistenceFailures, m.Checkouts, m.CatalogRefresh, m.ActiveSessions)
	return m
}

func (m *Metrics) CartMutation(op string) {
	if m != nil {
		m.CartMutations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) PersistenceFailure(op string) {
	if m != nil {
		m.PersistenceFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) Checkout() {
	if m != nil {
		m.Checkouts.Inc()
	}
}

func (m *Metrics) CatalogRefreshed(status string) {
	if m != nil {
		m.CatalogRefresh.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) SetSessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}
