// Package metrics exposes the service's Prometheus metrics.
//
// A Collector owns its own registry and groups metrics by subsystem:
//
//   - engine: analyses by status, rule matches, risk score and keyword hit
//     distributions, evaluation latency
//   - http: request counts and latencies by route
//   - catalog: reload outcomes and the active rule count
//   - history: record writes by outcome and pruned records
//
// Every Record method is a no-op when metrics are disabled, so callers never
// need to check. Mount Handler at telemetry.metrics.path:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
