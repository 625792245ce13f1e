package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks served HTTP requests.
//
// Metrics:
//   - scout_http_requests_total: requests by path, method and status code
//   - scout_http_request_duration_seconds: request latency by path
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics.
func NewHTTPMetrics(namespace string, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)

	return hm
}

// Record records one request.
func (hm *HTTPMetrics) Record(path, method, code string, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(path, method, code).Inc()
	hm.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}
