package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per served request.
// *metrics.Collector implements it.
type HTTPRecorder interface {
	RecordHTTPRequest(path, method string, code int, duration time.Duration)
}

// Metrics records the path, method, status and latency of every request.
// A nil recorder disables the middleware.
func Metrics(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			recorder.RecordHTTPRequest(r.URL.Path, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
