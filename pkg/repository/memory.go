package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wanderon/auth-service/pkg/domain"
)

// MemoryStore is a mutex-guarded in-memory implementation of the
// credential store contract. Counter mutations follow the same
// atomic-update semantics as the Postgres repository: each mutation holds
// the lock for the whole read-modify-write, so concurrent failed-login
// attempts never lose counts. Used by tests and local development.
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	// Now is the clock used for lock decisions. Overridable in tests.
	Now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*domain.User),
		Now:   time.Now,
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.LockUntil != nil {
		t := *u.LockUntil
		c.LockUntil = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// Create inserts a new user, enforcing the same uniqueness constraints as
// the database schema.
func (s *MemoryStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return &domain.DuplicateFieldError{Field: "email"}
		}
		if existing.Username == user.Username {
			return &domain.DuplicateFieldError{Field: "username"}
		}
	}

	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID retrieves a user without the password hash.
func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := cloneUser(user)
	c.PasswordHash = ""
	return c, nil
}

// FindByIdentifier matches email case-insensitively or username
// case-sensitively; the password hash is included.
func (s *MemoryStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, identifier) || user.Username == identifier {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// PasswordHashByID retrieves only the stored digest.
func (s *MemoryStore) PasswordHashByID(ctx context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return user.PasswordHash, nil
}

func (s *MemoryStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.ExistsByEmailOtherThan(ctx, email, uuid.Nil)
}

func (s *MemoryStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.ExistsByUsernameOtherThan(ctx, username, uuid.Nil)
}

func (s *MemoryStore) ExistsByEmailOtherThan(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID != id && strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ExistsByUsernameOtherThan(ctx context.Context, username string, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID != id && user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// UpdateProfile patches username and/or email.
func (s *MemoryStore) UpdateProfile(ctx context.Context, id uuid.UUID, username, email *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	for _, existing := range s.users {
		if existing.ID == id {
			continue
		}
		if username != nil && existing.Username == *username {
			return nil, &domain.DuplicateFieldError{Field: "username"}
		}
		if email != nil && strings.EqualFold(existing.Email, *email) {
			return nil, &domain.DuplicateFieldError{Field: "email"}
		}
	}

	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}

	c := cloneUser(user)
	c.PasswordHash = ""
	return c, nil
}

// UpdatePassword replaces the stored digest.
func (s *MemoryStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// RecordFailedAttempt increments the attempt counter and sets the lock
// when the post-increment count reaches the threshold on an account that
// is not already locked.
func (s *MemoryStore) RecordFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	now := s.Now()
	user.LoginAttempts++
	if user.LoginAttempts >= maxAttempts && !user.IsLocked(now) {
		until := now.Add(lockFor)
		user.LockUntil = &until
	}
	return nil
}

// ResetLockout zeroes the attempt counter and clears the lock together.
func (s *MemoryStore) ResetLockout(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	return nil
}

func (s *MemoryStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.LastLogin = &at
	return nil
}

// Delete removes the record permanently.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// List returns all users without password hashes, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		c := cloneUser(user)
		c.PasswordHash = ""
		users = append(users, c)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
