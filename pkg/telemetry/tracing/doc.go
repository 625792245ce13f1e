// Package tracing provides OpenTelemetry tracing for the HTTP API and the
// conflict engine.
//
// New returns a no-op tracer when telemetry.tracing.enabled is false.
// Otherwise spans are batched to an OTLP/gRPC collector and the W3C
// traceparent and baggage propagators are installed globally, so traces
// started by a caller continue through the service:
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler = tracer.Middleware(handler)
//
// Handlers open child spans with Start and describe their work with the
// scout.* attribute keys in this package.
package tracing
