// Package server provides the HTTP server of the scout service.
//
// The server ties the API handlers, health endpoints and metrics endpoint
// to one mux, wraps it in the middleware chain and manages the listener
// lifecycle including graceful shutdown on SIGTERM and SIGINT.
//
// # Basic Usage
//
//	engine := conflict.NewSwappable(conflict.Default())
//	srv := server.NewServer(cfg, server.Dependencies{
//	    Analyzer: engine,
//	    Metrics:  collector,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//   - POST /api/analyze - evaluate an ingredient list
//   - GET /api/health - liveness probe
//   - GET /api/ready - readiness probe (catalog loaded, history reachable)
//   - GET /api/version - build information
//   - GET /api/history - recorded analyses, when history is enabled
//   - GET /metrics - Prometheus metrics, when metrics are enabled
//   - GET / - static front-end files from server.static_dir
//
// # Middleware Chain
//
// Requests pass through, outermost first:
//  1. Recovery: panics become 500 responses
//  2. Logging: one structured line per request
//  3. RequestID: X-Request-ID header and context value
//  4. Tracing: server span per request, when tracing is enabled
//  5. Metrics: request count and latency
//  6. CORS: Cross-Origin Resource Sharing headers
//  7. Timeout: per-request deadline
//
// # Graceful Shutdown
//
// Start returns after the context is cancelled, a signal arrives or
// Shutdown is called. Active requests get up to server.shutdown_timeout to
// complete.
package server
