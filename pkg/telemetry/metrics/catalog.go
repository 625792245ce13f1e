package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"ingredient-scout/scout/pkg/conflict"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// CatalogMetrics tracks the rule catalog.
//
// Metrics:
//   - scout_catalog_reloads_total: reload attempts by result
//   - scout_catalog_rules: pair rules in the active catalog
//   - scout_catalog_keywords: keywords in the active catalog
type CatalogMetrics struct {
	reloadsTotal *prometheus.CounterVec
	rules        prometheus.Gauge
	keywords     prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics.
func NewCatalogMetrics(namespace string, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "reloads_total",
				Help:      "Rule catalog reload attempts by result",
			},
			[]string{"result"},
		),

		rules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "rules",
				Help:      "Number of pair rules in the active catalog",
			},
		),

		keywords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "keywords",
				Help:      "Number of keywords in the active catalog",
			},
		),
	}

	registry.MustRegister(cm.reloadsTotal, cm.rules, cm.keywords)

	return cm
}

// RecordReload counts a reload attempt.
func (cm *CatalogMetrics) RecordReload(result string) {
	cm.reloadsTotal.WithLabelValues(result).Inc()
}

// SetActive updates the gauges for the engine now serving requests.
func (cm *CatalogMetrics) SetActive(engine *conflict.RuleEngine) {
	if engine == nil {
		return
	}
	cm.rules.Set(float64(len(engine.RuleIDs())))
	cm.keywords.Set(float64(engine.KeywordCount()))
}
