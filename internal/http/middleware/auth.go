package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/auth"
	"github.com/wanderon/auth-service/pkg/domain"
)

type contextKey string

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// Auth creates middleware that guards protected routes. The token is read
// from the session cookie first, then from an Authorization bearer header.
// The user is re-fetched on every request and rejected when missing or
// deactivated; this is the only mitigation against a stolen token for a
// deactivated account, since tokens stay valid until natural expiry.
func Auth(logger *slog.Logger, tokens *auth.TokenService, service *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := httputil.TokenFromRequest(r, tokens.CookieName())
			if !ok {
				httputil.Fail(w, http.StatusUnauthorized, "Not authorized to access this route. Please login.")
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					httputil.Fail(w, http.StatusUnauthorized, "Session expired. Please login again.")
					return
				}
				httputil.Fail(w, http.StatusUnauthorized, "Invalid token. Please login again.")
				return
			}

			user, err := service.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					httputil.Fail(w, http.StatusUnauthorized, "User no longer exists")
					return
				}
				logger.Error("auth middleware: fetch user", "error", err, "user_id", userID)
				httputil.InternalError(w)
				return
			}

			if !user.IsActive {
				httputil.Fail(w, http.StatusUnauthorized, "Account has been deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from the request context.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}
