package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wanderon/auth-service/pkg/domain"
)

// Service implements the credential flows: registration, authentication
// with lockout bookkeeping, password change, profile updates, and account
// deletion. Inputs are expected to have passed the validation pipeline.
type Service struct {
	store  UserStore
	hasher *Hasher
	policy LockoutPolicy
	now    func() time.Time
}

// NewService creates the auth service.
func NewService(store UserStore, hasher *Hasher, policy LockoutPolicy) *Service {
	if policy.MaxAttempts == 0 {
		policy = DefaultLockoutPolicy()
	}
	return &Service{
		store:  store,
		hasher: hasher,
		policy: policy,
		now:    time.Now,
	}
}

// RegisterInput holds the sanitized registration fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// Register creates a new user. Email and username uniqueness are checked
// before insertion; a store-level conflict from a concurrent registration
// is reported the same way, as *domain.DuplicateFieldError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateFieldError{Field: "email"}
	}

	exists, err = s.store.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateFieldError{Field: "username"}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    s.now(),
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies an identifier (email or username) and password,
// driving the lockout state machine:
//
//   - unknown identifier rejects without touching any counters
//   - an inactive account never authenticates
//   - a locked account rejects before password verification; the attempt
//     is still counted for audit
//   - an expired lock is cleared and the counter window restarted before
//     verification proceeds
//   - a failed verification increments atomically, locking at the
//     threshold in the same update
//   - success resets the counters and stamps the last login
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	now := s.now()

	user, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	switch s.policy.State(user.LockUntil, now) {
	case Locked:
		// Tracked for audit; the active lock is not extended.
		_ = s.store.RecordFailedAttempt(ctx, user.ID, s.policy.MaxAttempts, s.policy.LockDuration)
		return nil, domain.ErrAccountLocked
	case LockExpired:
		if err := s.store.ResetLockout(ctx, user.ID); err != nil {
			return nil, err
		}
		user.LoginAttempts = 0
		user.LockUntil = nil
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		_ = s.store.RecordFailedAttempt(ctx, user.ID, s.policy.MaxAttempts, s.policy.LockDuration)
		return nil, domain.ErrInvalidCredentials
	}

	if user.LoginAttempts > 0 || user.LockUntil != nil {
		if err := s.store.ResetLockout(ctx, user.ID); err != nil {
			return nil, err
		}
		user.LoginAttempts = 0
		user.LockUntil = nil
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	user.PasswordHash = ""
	return user, nil
}

// GetUser fetches a user by ID with the password hash excluded.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.store.GetByID(ctx, id)
}

// ChangePassword re-proves the current password before replacing the
// stored digest. The hash is recomputed only here and at registration,
// never on unrelated field updates.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	hash, err := s.store.PasswordHashByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, hash) {
		return domain.ErrInvalidCredentials
	}

	if currentPassword == newPassword {
		return domain.ErrSamePassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, newHash)
}

// UpdateProfile patches username and/or email, rejecting values already
// owned by a different account.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, username, email *string) (*domain.User, error) {
	if username != nil {
		taken, err := s.store.ExistsByUsernameOtherThan(ctx, *username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.DuplicateFieldError{Field: "username"}
		}
	}

	if email != nil {
		normalized := domain.NormalizeEmail(*email)
		email = &normalized

		taken, err := s.store.ExistsByEmailOtherThan(ctx, normalized, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.DuplicateFieldError{Field: "email"}
		}
	}

	return s.store.UpdateProfile(ctx, id, username, email)
}

// DeleteAccount permanently removes the user after a password re-proof.
// A wrong password leaves the record intact.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := s.store.PasswordHashByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(password, hash) {
		return domain.ErrInvalidCredentials
	}

	return s.store.Delete(ctx, id)
}

// ListUsers returns all accounts, password hashes excluded.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.store.List(ctx)
}
