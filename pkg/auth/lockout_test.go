package auth

import (
	"testing"
	"time"
)

func TestLockoutPolicy_State(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * time.Minute)
	past := now.Add(-1 * time.Second)
	exact := now

	policy := DefaultLockoutPolicy()

	tests := []struct {
		name      string
		lockUntil *time.Time
		want      LockState
	}{
		{name: "no lock set", lockUntil: nil, want: Unlocked},
		{name: "lock in the future", lockUntil: &future, want: Locked},
		{name: "lock in the past", lockUntil: &past, want: LockExpired},
		{name: "lock exactly now", lockUntil: &exact, want: LockExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.State(tt.lockUntil, now); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLockoutPolicy_OnFailure_LocksAtThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := LockoutPolicy{MaxAttempts: 5, LockDuration: 15 * time.Minute}

	attempts := 0
	var lockUntil *time.Time

	// First four failures only increment.
	for i := 1; i <= 4; i++ {
		out := policy.OnFailure(attempts, lockUntil, now)
		if out.Attempts != i {
			t.Fatalf("failure %d: Attempts = %d, want %d", i, out.Attempts, i)
		}
		if out.LockUntil != nil {
			t.Fatalf("failure %d: lock set too early", i)
		}
		attempts, lockUntil = out.Attempts, out.LockUntil
	}

	// The fifth failure crosses the threshold and sets the lock in the
	// same transition.
	out := policy.OnFailure(attempts, lockUntil, now)
	if out.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", out.Attempts)
	}
	if out.LockUntil == nil {
		t.Fatal("lock not set at threshold")
	}
	if want := now.Add(15 * time.Minute); !out.LockUntil.Equal(want) {
		t.Errorf("LockUntil = %v, want %v", out.LockUntil, want)
	}
}

func TestLockoutPolicy_OnFailure_NeverExtendsActiveLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := LockoutPolicy{MaxAttempts: 5, LockDuration: 15 * time.Minute}

	active := now.Add(5 * time.Minute)
	out := policy.OnFailure(7, &active, now)

	if out.Attempts != 8 {
		t.Errorf("Attempts = %d, want 8", out.Attempts)
	}
	if out.LockUntil == nil || !out.LockUntil.Equal(active) {
		t.Errorf("LockUntil = %v, want unchanged %v", out.LockUntil, active)
	}
}

func TestLockoutPolicy_OnFailure_RelocksAfterExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := LockoutPolicy{MaxAttempts: 5, LockDuration: 15 * time.Minute}

	expired := now.Add(-1 * time.Minute)
	out := policy.OnFailure(4, &expired, now)

	if out.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", out.Attempts)
	}
	if out.LockUntil == nil {
		t.Fatal("expired lock should be replaced with a fresh one at threshold")
	}
	if want := now.Add(15 * time.Minute); !out.LockUntil.Equal(want) {
		t.Errorf("LockUntil = %v, want %v", out.LockUntil, want)
	}
}

func TestLockoutPolicy_OnSuccess(t *testing.T) {
	out := DefaultLockoutPolicy().OnSuccess()
	if out.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", out.Attempts)
	}
	if out.LockUntil != nil {
		t.Errorf("LockUntil = %v, want nil", out.LockUntil)
	}
}

func TestLockState_String(t *testing.T) {
	tests := []struct {
		state LockState
		want  string
	}{
		{Unlocked, "unlocked"},
		{Locked, "locked"},
		{LockExpired, "lock_expired"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
