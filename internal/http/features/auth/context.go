package auth

import (
	"net/http"

	"github.com/wanderon/auth-service/internal/http/middleware"
	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/domain"
)

// getUser pulls the authenticated user set by the auth middleware,
// writing the 401 response itself when absent.
func getUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return user, true
}
