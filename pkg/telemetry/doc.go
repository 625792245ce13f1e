// Package telemetry groups the observability packages of the scout server.
//
// # Components
//
//   - logging: slog logger built from config, with the request ID carried in the context
//   - metrics: Prometheus collectors for analyses, HTTP traffic, the catalog and history
//   - tracing: OpenTelemetry tracer with an OTLP/gRPC exporter
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordAnalysis(assessment, time.Since(start))
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(ctx)
//
//	checker := health.New(2 * time.Second)
//	checker.Register("catalog", health.CatalogCheck(analyzer))
//
// Every component is safe to use when disabled: a disabled collector
// records nothing and a disabled tracer hands out noop spans.
package telemetry
