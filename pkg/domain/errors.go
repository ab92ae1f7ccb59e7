package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked due to too many failed login attempts")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized to access this resource")
)

// Token errors. Invalid and expired are distinct because callers give
// different user-facing guidance for each.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Password errors
var (
	ErrSamePassword = errors.New("new password must be different from current password")
)

// DuplicateFieldError reports a uniqueness conflict on a specific field
// (email or username).
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	switch e.Field {
	case "email":
		return "email already registered"
	case "username":
		return "username already taken"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

// IsDuplicateField returns the conflicting field name if err is a
// duplicate-field conflict.
func IsDuplicateField(err error) (string, bool) {
	var dup *DuplicateFieldError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}
