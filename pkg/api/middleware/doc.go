// Package middleware provides the HTTP middleware wrapped around every API
// route: panic recovery, request logging, request IDs, metrics, CORS and
// per-request timeouts.
//
// The server applies them outermost first:
//
//	Recovery -> Logging -> RequestID -> tracing -> Metrics -> CORS -> Timeout -> mux
//
// Each middleware is a plain func(http.Handler) http.Handler or returns one,
// so they compose with Chain.
package middleware

import "net/http"

// Chain wraps h so that the first middleware is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
