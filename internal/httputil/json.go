package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/wanderon/auth-service/pkg/validate"
)

// Response is the shape of every JSON response body.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	User    any    `json:"user,omitempty"`
	Users   any    `json:"users,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// DuplicateField writes the 400 response for a uniqueness conflict,
// naming the conflicting field.
func DuplicateField(w http.ResponseWriter, field, message string) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Field:   field,
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success response with a message.
func OK(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: true, Message: message})
}

// Fail writes a failure response with a message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Message: message})
}

// ValidationFailed writes the full field-error list so the client can
// render every problem at once.
func ValidationFailed(w http.ResponseWriter, errs validate.Errors) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// InternalError writes the generic 500 response. Detail stays in the
// server logs, never in the body.
func InternalError(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
