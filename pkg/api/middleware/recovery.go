package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"ingredient-scout/scout/pkg/api/types"
)

// Recovery recovers from panics in handlers and answers 500 with the panic
// value as the message. http.ErrAbortHandler is re-raised so the server can
// abort the connection.
//
// Example usage:
//
//	handler = Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			types.WriteJSON(w, http.StatusInternalServerError, types.NewInternalError(fmt.Sprint(rec)))
		}()

		next.ServeHTTP(w, r)
	})
}
