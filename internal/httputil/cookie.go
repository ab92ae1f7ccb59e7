package httputil

import (
	"net/http"
	"strings"
)

// TokenFromRequest extracts the session token, checking the named cookie
// first (web clients) and falling back to an Authorization bearer header
// (API clients).
func TokenFromRequest(r *http.Request, cookieName string) (string, bool) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
	}

	return "", false
}
