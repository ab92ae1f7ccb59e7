package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wanderon/auth-service/pkg/domain"
)

// UserStore is the credential store contract the auth service depends on.
// Counter mutations (RecordFailedAttempt, ResetLockout) must be atomic
// single-record updates so concurrent login attempts against the same
// account cannot lose counts.
type UserStore interface {
	// Create inserts a new user. A uniqueness conflict surfaces as
	// *domain.DuplicateFieldError naming the conflicting field.
	Create(ctx context.Context, user *domain.User) error

	// GetByID fetches a user with the password hash excluded.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByIdentifier matches email (case-insensitive) or username
	// (case-sensitive) in a single disjunctive lookup. The password
	// hash is included for the verification path.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// PasswordHashByID fetches only the stored digest.
	PasswordHashByID(ctx context.Context, id uuid.UUID) (string, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmailOtherThan(ctx context.Context, email string, id uuid.UUID) (bool, error)
	ExistsByUsernameOtherThan(ctx context.Context, username string, id uuid.UUID) (bool, error)

	// UpdateProfile patches username and/or email. Nil fields are left
	// untouched. Conflicts surface as *domain.DuplicateFieldError.
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email *string) (*domain.User, error)

	// UpdatePassword replaces the stored digest.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// RecordFailedAttempt atomically increments the attempt counter and,
	// when the post-increment count reaches maxAttempts on an unlocked
	// account, sets the lock timestamp in the same update.
	RecordFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) error

	// ResetLockout zeroes the attempt counter and clears the lock in one
	// update.
	ResetLockout(ctx context.Context, id uuid.UUID) error

	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes the record permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context) ([]*domain.User, error)
}
