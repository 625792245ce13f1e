package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ingredient-scout/scout/pkg/api/types"
)

// errNoKey is returned when no source carries a key.
var errNoKey = errors.New("no API key found")

// APIKeyMiddleware rejects requests without a valid API key.
type APIKeyMiddleware struct {
	store   KeyStore
	sources []KeySource
}

// NewAPIKeyMiddleware creates the middleware. Nil sources selects
// DefaultSources.
func NewAPIKeyMiddleware(store KeyStore, sources []KeySource) *APIKeyMiddleware {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &APIKeyMiddleware{store: store, sources: sources}
}

// Handle wraps next with the key check.
func (m *APIKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := m.extractAPIKey(r)
		if err == nil {
			var info *KeyInfo
			if info, err = m.store.Validate(key); err == nil {
				slog.DebugContext(r.Context(), "API key authenticated",
					"key_name", info.Name,
					"path", r.URL.Path,
				)
				ctx := context.WithValue(r.Context(), contextKey{}, info)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		slog.WarnContext(r.Context(), "API key rejected",
			"error", err,
			"remote_addr", r.RemoteAddr,
			"path", r.URL.Path,
		)
		w.Header().Set("WWW-Authenticate", `Bearer realm="scout"`)
		types.WriteError(w, http.StatusUnauthorized, types.MsgUnauthorized)
	})
}

func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) (string, error) {
	for _, source := range m.sources {
		value := strings.TrimSpace(r.Header.Get(source.Header))
		if value == "" {
			continue
		}
		if source.Scheme == "" {
			return value, nil
		}
		scheme, token, ok := strings.Cut(value, " ")
		if ok && strings.EqualFold(scheme, source.Scheme) {
			if token = strings.TrimSpace(token); token != "" {
				return token, nil
			}
		}
	}
	return "", errNoKey
}
