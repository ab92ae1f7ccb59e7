package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/wanderon/auth-service/internal/httputil"
)

// Recover creates middleware that converts panics into a generic 500
// response. Full detail goes to the server log only; the caller never
// sees stack traces or internal identifiers.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					httputil.InternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
