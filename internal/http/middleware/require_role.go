package middleware

import (
	"fmt"
	"net/http"

	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/domain"
)

// RequireRole creates middleware that rejects authenticated users whose
// role is not in the allowed set. Must run after Auth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				httputil.Fail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if !allowed[user.Role] {
				httputil.Fail(w, http.StatusForbidden,
					fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
