package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wanderon/auth-service/pkg/domain"
)

func seedUser(t *testing.T, store *MemoryStore, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    "Alice",
		LastName:     "Traveler",
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$fakedigestfortesting0000000000000000000000000000000",
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("Create(%s) failed: %v", username, err)
	}
	return user
}

func TestMemoryStore_CreateRejectsDuplicates(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "alice_w", "alice@example.com")

	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{name: "duplicate email", username: "other", email: "alice@example.com", wantField: "email"},
		{name: "duplicate email different case", username: "other", email: "ALICE@EXAMPLE.COM", wantField: "email"},
		{name: "duplicate username", username: "alice_w", email: "other@example.com", wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Create(context.Background(), &domain.User{
				ID:       uuid.New(),
				Username: tt.username,
				Email:    tt.email,
			})
			field, ok := domain.IsDuplicateField(err)
			if !ok {
				t.Fatalf("err = %v, want DuplicateFieldError", err)
			}
			if field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
		})
	}
}

func TestMemoryStore_FindByIdentifier(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "alice_w", "alice@example.com")

	tests := []struct {
		name       string
		identifier string
		wantErr    error
	}{
		{name: "email exact", identifier: "alice@example.com"},
		{name: "email case folded", identifier: "ALICE@example.COM"},
		{name: "username exact", identifier: "alice_w"},
		{name: "username wrong case", identifier: "Alice_W", wantErr: domain.ErrUserNotFound},
		{name: "unknown", identifier: "nobody", wantErr: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := store.FindByIdentifier(context.Background(), tt.identifier)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && user.PasswordHash == "" {
				t.Error("verification path lookup must include the password hash")
			}
		})
	}
}

func TestMemoryStore_GetByIDExcludesHash(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "alice_w", "alice@example.com")

	got, err := store.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("GetByID leaked the password hash")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "alice_w", "alice@example.com")

	got, _ := store.GetByID(context.Background(), user.ID)
	got.Username = "mutated"

	again, _ := store.GetByID(context.Background(), user.ID)
	if again.Username != "alice_w" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMemoryStore_RecordFailedAttempt(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	user := seedUser(t, store, "alice_w", "alice@example.com")
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if err := store.RecordFailedAttempt(ctx, user.ID, 5, 15*time.Minute); err != nil {
			t.Fatalf("RecordFailedAttempt failed: %v", err)
		}
	}
	got, _ := store.GetByID(ctx, user.ID)
	if got.LoginAttempts != 4 || got.LockUntil != nil {
		t.Fatalf("after 4 failures: attempts=%d lock=%v", got.LoginAttempts, got.LockUntil)
	}

	// Fifth failure locks in the same update.
	if err := store.RecordFailedAttempt(ctx, user.ID, 5, 15*time.Minute); err != nil {
		t.Fatalf("RecordFailedAttempt failed: %v", err)
	}
	got, _ = store.GetByID(ctx, user.ID)
	if got.LockUntil == nil || !got.LockUntil.Equal(now.Add(15*time.Minute)) {
		t.Fatalf("lock not set at threshold: %v", got.LockUntil)
	}
	firstDeadline := *got.LockUntil

	// Further failures while locked never extend the deadline.
	now = now.Add(time.Minute)
	if err := store.RecordFailedAttempt(ctx, user.ID, 5, 15*time.Minute); err != nil {
		t.Fatalf("RecordFailedAttempt failed: %v", err)
	}
	got, _ = store.GetByID(ctx, user.ID)
	if !got.LockUntil.Equal(firstDeadline) {
		t.Errorf("active lock extended: %v, want %v", got.LockUntil, firstDeadline)
	}
	if got.LoginAttempts != 6 {
		t.Errorf("LoginAttempts = %d, want 6", got.LoginAttempts)
	}
}

func TestMemoryStore_RecordFailedAttemptConcurrent(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "alice_w", "alice@example.com")
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_ = store.RecordFailedAttempt(ctx, user.ID, 5, 15*time.Minute)
		}()
	}
	wg.Wait()

	got, _ := store.GetByID(ctx, user.ID)
	if got.LoginAttempts != attempts {
		t.Errorf("LoginAttempts = %d, want %d (lost updates)", got.LoginAttempts, attempts)
	}
}

func TestMemoryStore_ResetLockout(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "alice_w", "alice@example.com")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = store.RecordFailedAttempt(ctx, user.ID, 5, 15*time.Minute)
	}
	if err := store.ResetLockout(ctx, user.ID); err != nil {
		t.Fatalf("ResetLockout failed: %v", err)
	}

	got, _ := store.GetByID(ctx, user.ID)
	if got.LoginAttempts != 0 || got.LockUntil != nil {
		t.Errorf("counters not cleared together: attempts=%d lock=%v", got.LoginAttempts, got.LockUntil)
	}
}

func TestMemoryStore_UpdateProfile(t *testing.T) {
	store := NewMemoryStore()
	alice := seedUser(t, store, "alice_w", "alice@example.com")
	seedUser(t, store, "bob_t", "bob@example.com")
	ctx := context.Background()

	str := func(s string) *string { return &s }

	updated, err := store.UpdateProfile(ctx, alice.ID, str("alice_new"), nil)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Username != "alice_new" {
		t.Errorf("Username = %q, want alice_new", updated.Username)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("nil email field was modified: %q", updated.Email)
	}
	if updated.PasswordHash != "" {
		t.Error("UpdateProfile leaked the password hash")
	}

	if _, err := store.UpdateProfile(ctx, alice.ID, str("bob_t"), nil); err == nil {
		t.Error("conflicting username accepted")
	}
	if _, err := store.UpdateProfile(ctx, alice.ID, nil, str("BOB@example.com")); err == nil {
		t.Error("conflicting email accepted despite case difference")
	}
}

func TestMemoryStore_MissingUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id := uuid.New()

	if _, err := store.GetByID(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetByID err = %v", err)
	}
	if _, err := store.PasswordHashByID(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("PasswordHashByID err = %v", err)
	}
	if err := store.UpdatePassword(ctx, id, "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("UpdatePassword err = %v", err)
	}
	if err := store.RecordFailedAttempt(ctx, id, 5, time.Minute); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("RecordFailedAttempt err = %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Delete err = %v", err)
	}
}
