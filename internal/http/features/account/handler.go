package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wanderon/auth-service/internal/http/middleware"
	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/auth"
	"github.com/wanderon/auth-service/pkg/domain"
	"github.com/wanderon/auth-service/pkg/validate"
)

// Handler handles password change, profile updates, and account deletion.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
	tokens  *auth.TokenService
}

// NewHandler creates a new account handler.
func NewHandler(logger *slog.Logger, service *auth.Service, tokens *auth.TokenService) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		tokens:  tokens,
	}
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		httputil.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return user, true
}

// UpdatePassword changes the password after re-proving the current one,
// then issues a fresh session token.
// PUT /api/auth/updatepassword
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.getUser(w, r)
	if !ok {
		return
	}

	fields, err := validate.FieldsFromJSON(r.Body)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitized, errs := validate.Run(updatePasswordRules(), fields)
	if len(errs) > 0 {
		httputil.ValidationFailed(w, errs)
		return
	}

	err = h.service.ChangePassword(r.Context(), user.ID, sanitized["currentPassword"], sanitized["newPassword"])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Fail(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, domain.ErrSamePassword):
			httputil.Fail(w, http.StatusBadRequest, "New password must be different from current password")
		default:
			h.logger.Error("update password failed", "error", err, "user_id", user.ID)
			httputil.InternalError(w)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", "error", err, "user_id", user.ID)
		httputil.InternalError(w)
		return
	}

	h.logger.Info("password updated", "user_id", user.ID)
	http.SetCookie(w, h.tokens.Cookie(token))
	httputil.JSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "Password updated successfully",
		User:    httputil.NewUserResponse(user),
	})
}

// UpdateProfile patches username and/or email.
// PUT /api/auth/updateprofile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.getUser(w, r)
	if !ok {
		return
	}

	fields, err := validate.FieldsFromJSON(r.Body)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitized, errs := validate.Run(updateProfileRules(), fields)
	if len(errs) > 0 {
		httputil.ValidationFailed(w, errs)
		return
	}

	var username, email *string
	if v, ok := sanitized["username"]; ok && v != "" {
		username = &v
	}
	if v, ok := sanitized["email"]; ok && v != "" {
		email = &v
	}

	if username == nil && email == nil {
		httputil.Fail(w, http.StatusBadRequest, "Provide a username or email to update")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, username, email)
	if err != nil {
		if field, ok := domain.IsDuplicateField(err); ok {
			httputil.DuplicateField(w, field, err.Error())
			return
		}
		h.logger.Error("update profile failed", "error", err, "user_id", user.ID)
		httputil.InternalError(w)
		return
	}

	h.logger.Info("profile updated", "user_id", user.ID)
	httputil.JSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "Profile updated successfully",
		User:    httputil.NewUserResponse(updated),
	})
}

// DeleteAccount permanently removes the account after a password
// re-proof and clears the session cookie.
// DELETE /api/auth/deleteaccount
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := h.getUser(w, r)
	if !ok {
		return
	}

	fields, err := validate.FieldsFromJSON(r.Body)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitized, errs := validate.Run(deleteAccountRules(), fields)
	if len(errs) > 0 {
		httputil.ValidationFailed(w, errs)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), user.ID, sanitized["password"]); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			httputil.Fail(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		h.logger.Error("delete account failed", "error", err, "user_id", user.ID)
		httputil.InternalError(w)
		return
	}

	h.logger.Info("account deleted", "user_id", user.ID)
	http.SetCookie(w, h.tokens.ClearCookie())
	httputil.OK(w, http.StatusOK, "Account deleted successfully")
}
