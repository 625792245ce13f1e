package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logging logs every request with structured attributes once it completes.
// Server errors are logged at error level, client errors at warn.
//
// Log format (JSON):
//
//	{
//	  "time": "2026-03-02T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "POST",
//	  "path": "/api/analyze",
//	  "status": 200,
//	  "latency_ms": 2,
//	  "request_id": "0b6f...",
//	  "remote_addr": "192.168.1.100:54321"
//	}
//
// Logging runs outside RequestID, so the ID is read back from the response
// header.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		slog.DebugContext(r.Context(), "request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		if rw.statusCode >= 500 {
			level = slog.LevelError
		} else if rw.statusCode >= 400 {
			level = slog.LevelWarn
		}

		slog.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", w.Header().Get(RequestIDHeader),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}
