package metrics

import "github.com/prometheus/client_golang/prometheus"

// HistoryMetrics tracks the analysis history store.
//
// Metrics:
//   - scout_history_writes_total: record writes by result
//   - scout_history_pruned_total: records deleted by retention
type HistoryMetrics struct {
	writesTotal *prometheus.CounterVec
	prunedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics.
func NewHistoryMetrics(namespace string, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "writes_total",
				Help:      "Analysis record writes by result",
			},
			[]string{"result"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "pruned_total",
				Help:      "Analysis records deleted by retention",
			},
		),
	}

	registry.MustRegister(hm.writesTotal, hm.prunedTotal)

	return hm
}

// RecordWrite counts one record write.
func (hm *HistoryMetrics) RecordWrite(result string) {
	hm.writesTotal.WithLabelValues(result).Inc()
}

// RecordPruned adds n pruned records.
func (hm *HistoryMetrics) RecordPruned(n int64) {
	if n > 0 {
		hm.prunedTotal.Add(float64(n))
	}
}
