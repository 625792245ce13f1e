package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"ingredient-scout/scout/pkg/config"
)

// CORS adds Cross-Origin Resource Sharing headers and answers preflight
// requests with 204. With Enabled false it passes requests through
// untouched.
//
// Configuration:
//
//	cfg := config.CORSConfig{
//	    Enabled:        true,
//	    AllowedOrigins: []string{"https://scout.example.com"},
//	    AllowedMethods: []string{"GET", "POST", "OPTIONS"},
//	    AllowedHeaders: []string{"Content-Type"},
//	    MaxAge:         3600,
//	}
//	handler = CORS(cfg)(handler)
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	wildcard := slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			default:
				// Unknown origin: serve the request without CORS headers and
				// let the browser block it.
				next.ServeHTTP(w, r)
				return
			}

			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if methods != "" {
					w.Header().Set("Access-Control-Allow-Methods", methods)
				}
				if headers != "" {
					w.Header().Set("Access-Control-Allow-Headers", headers)
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
