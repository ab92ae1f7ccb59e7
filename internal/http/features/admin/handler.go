package admin

import (
	"log/slog"
	"net/http"

	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/auth"
)

// Handler handles admin-only endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// ListUsers returns all accounts.
// GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		httputil.InternalError(w)
		return
	}

	out := make([]httputil.UserResponse, len(users))
	for i, u := range users {
		out[i] = httputil.NewUserResponse(u)
	}

	httputil.JSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Users:   out,
	})
}
