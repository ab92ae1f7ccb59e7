package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account record owned by the credential store.
// PasswordHash is populated only on verification paths and is never
// serialized to callers.
type User struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Username      string
	Email         string
	PasswordHash  string
	Role          Role
	IsActive      bool
	LoginAttempts int
	LockUntil     *time.Time
	CreatedAt     time.Time
	LastLogin     *time.Time
}

// IsLocked returns true if the account is locked at the given instant.
// A lock timestamp in the past counts as unlocked.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}

// LockExpired returns true if a lock was set but has already elapsed.
func (u *User) LockExpired(now time.Time) bool {
	return u.LockUntil != nil && !now.Before(*u.LockUntil)
}

// Field constraints shared by the validation pipeline and the store.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	NameMinLength     = 2
	NameMaxLength     = 50
	PasswordMinLength = 8
	// bcrypt rejects inputs longer than 72 bytes, so the password
	// ceiling is pinned to that rather than an arbitrary bound.
	PasswordMaxLength = 72
	EmailMaxLength    = 255
)

// reservedUsernames are disallowed regardless of availability.
var reservedUsernames = map[string]bool{
	"admin":   true,
	"root":    true,
	"user":    true,
	"guest":   true,
	"test":    true,
	"api":     true,
	"www":     true,
	"mail":    true,
	"support": true,
}

// IsReservedUsername reports whether the username is on the reserved list.
// The check is case-insensitive.
func IsReservedUsername(username string) bool {
	return reservedUsernames[strings.ToLower(username)]
}

// NormalizeEmail lower-cases and trims an email address. Applied on every
// write path so the case-insensitive uniqueness invariant holds at the
// store level.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
