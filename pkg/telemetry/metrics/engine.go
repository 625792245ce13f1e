package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ingredient-scout/scout/pkg/conflict"
)

// NoRule is the rule label for danger verdicts reached on keyword hits alone.
const NoRule = "none"

// EngineMetrics tracks conflict engine assessments.
//
// Metrics:
//   - scout_engine_analyses_total: assessments by status
//   - scout_engine_rule_matches_total: danger verdicts by matched rule
//   - scout_engine_risk_score: risk score distribution
//   - scout_engine_keyword_hits: keyword hits per assessment
//   - scout_engine_evaluation_duration_seconds: assessment latency
type EngineMetrics struct {
	analysesTotal      *prometheus.CounterVec
	ruleMatchesTotal   *prometheus.CounterVec
	riskScore          prometheus.Histogram
	keywordHits        prometheus.Histogram
	evaluationDuration prometheus.Histogram
}

// NewEngineMetrics creates and registers engine metrics.
func NewEngineMetrics(namespace string, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "analyses_total",
				Help:      "Total number of ingredient list analyses by verdict status",
			},
			[]string{"status"},
		),

		ruleMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "rule_matches_total",
				Help:      "Danger verdicts by matched pair rule",
			},
			[]string{"rule"},
		),

		riskScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "risk_score",
				Help:      "Distribution of risk scores",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),

		keywordHits: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "keyword_hits",
				Help:      "Keyword hits per analysis",
				Buckets:   []float64{0, 1, 2, 3, 4, 6, 10},
			},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single analysis in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),
	}

	registry.MustRegister(
		em.analysesTotal,
		em.ruleMatchesTotal,
		em.riskScore,
		em.keywordHits,
		em.evaluationDuration,
	)

	return em
}

// Record records one assessment.
func (em *EngineMetrics) Record(a conflict.Assessment, duration time.Duration) {
	em.analysesTotal.WithLabelValues(string(a.Status)).Inc()
	if a.IsDanger() {
		rule := string(a.MatchedRule)
		if rule == "" {
			rule = NoRule
		}
		em.ruleMatchesTotal.WithLabelValues(rule).Inc()
	}
	em.riskScore.Observe(float64(a.RiskScore))
	em.keywordHits.Observe(float64(len(a.KeywordHits)))
	em.evaluationDuration.Observe(duration.Seconds())
}
