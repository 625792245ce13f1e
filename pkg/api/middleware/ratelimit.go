package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"ingredient-scout/scout/pkg/api/types"
	"ingredient-scout/scout/pkg/ratelimit"
)

// RateLimit throttles requests per client with limiter. A client over its
// rate gets 429 {"error": "Too many requests"} with Retry-After; a request
// arriving while MaxConcurrent analyses are running gets 503. Allowed
// responses carry X-RateLimit-Limit and X-RateLimit-Remaining.
//
// The client key is the remote IP, or the first X-Forwarded-For entry when
// trustProxy is set. A nil limiter disables the middleware.
func RateLimit(limiter *ratelimit.Limiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r, trustProxy)

			res := limiter.Allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				slog.DebugContext(r.Context(), "rate limited",
					"client", key,
					"path", r.URL.Path,
					"retry_after", res.RetryAfter.String(),
				)
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds()))
				types.WriteError(w, http.StatusTooManyRequests, types.MsgRateLimited)
				return
			}

			release, ok := limiter.Acquire()
			if !ok {
				slog.WarnContext(r.Context(), "concurrency limit reached", "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				types.WriteError(w, http.StatusServiceUnavailable, types.MsgOverloaded)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey identifies the caller of r for rate limiting.
func ClientKey(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
