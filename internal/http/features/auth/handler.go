package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wanderon/auth-service/internal/httputil"
	"github.com/wanderon/auth-service/pkg/auth"
	"github.com/wanderon/auth-service/pkg/domain"
	"github.com/wanderon/auth-service/pkg/validate"
)

// Handler handles registration, login, logout, and the current-user
// endpoint.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
	tokens  *auth.TokenService
}

// NewHandler creates a new auth handler.
func NewHandler(logger *slog.Logger, service *auth.Service, tokens *auth.TokenService) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		tokens:  tokens,
	}
}

// sendTokenResponse issues a session token, binds it to the HTTP-only
// cookie, and writes the shaped user response.
func (h *Handler) sendTokenResponse(w http.ResponseWriter, user *domain.User, status int, message string) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", "error", err, "user_id", user.ID)
		httputil.InternalError(w)
		return
	}

	http.SetCookie(w, h.tokens.Cookie(token))
	httputil.JSON(w, status, httputil.Response{
		Success: true,
		Message: message,
		User:    httputil.NewUserResponse(user),
	})
}

// Register handles user registration.
// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	fields, err := validate.FieldsFromJSON(r.Body)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitized, errs := validate.Run(registerRules(), fields)
	if len(errs) > 0 {
		httputil.ValidationFailed(w, errs)
		return
	}

	user, err := h.service.Register(r.Context(), auth.RegisterInput{
		FirstName: sanitized["firstName"],
		LastName:  sanitized["lastName"],
		Username:  sanitized["username"],
		Email:     sanitized["email"],
		Password:  sanitized["password"],
	})
	if err != nil {
		if field, ok := domain.IsDuplicateField(err); ok {
			httputil.DuplicateField(w, field, err.Error())
			return
		}
		h.logger.Error("registration failed", "error", err)
		httputil.InternalError(w)
		return
	}

	h.logger.Info("new user registered", "user_id", user.ID, "username", user.Username)
	h.sendTokenResponse(w, user, http.StatusCreated, "User registered successfully")
}

// Login handles user login with identifier (email or username) and
// password.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := validate.FieldsFromJSON(r.Body)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sanitized, errs := validate.Run(loginRules(), fields)
	if len(errs) > 0 {
		httputil.ValidationFailed(w, errs)
		return
	}

	user, err := h.service.Authenticate(r.Context(), sanitized["identifier"], sanitized["password"])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Same message for unknown identifier and wrong password,
			// to avoid account enumeration.
			httputil.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Fail(w, http.StatusUnauthorized, "Account temporarily locked due to too many failed login attempts. Please try again later.")
		case errors.Is(err, domain.ErrAccountDeactivated):
			httputil.Fail(w, http.StatusUnauthorized, "Account has been deactivated. Please contact support.")
		default:
			h.logger.Error("login failed", "error", err)
			httputil.InternalError(w)
		}
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	h.sendTokenResponse(w, user, http.StatusOK, "Login successful")
}

// Me returns the current authenticated user.
// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := getUser(w, r)
	if !ok {
		return
	}

	httputil.JSON(w, http.StatusOK, httputil.Response{
		Success: true,
		User:    httputil.NewUserResponse(user),
	})
}

// Logout clears the session cookie. The token itself stays valid until
// natural expiry; there is no server-side revocation.
// GET /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUser(w, r); !ok {
		return
	}

	http.SetCookie(w, h.tokens.ClearCookie())
	httputil.OK(w, http.StatusOK, "Logged out successfully")
}
