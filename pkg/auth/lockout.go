package auth

import (
	"time"
)

// Lockout defaults.
const (
	DefaultMaxLoginAttempts = 5
	DefaultLockoutDuration  = 15 * time.Minute
)

// LockState describes where an account sits in the lockout cycle.
type LockState int

const (
	// Unlocked: attempts below the threshold, no active lock.
	Unlocked LockState = iota
	// Locked: lock timestamp set and still in the future.
	Locked
	// LockExpired: a lock was set but has elapsed; the account must be
	// treated as unlocked and the counter window restarted.
	LockExpired
)

func (s LockState) String() string {
	switch s {
	case Locked:
		return "locked"
	case LockExpired:
		return "lock_expired"
	}
	return "unlocked"
}

// LockoutPolicy is the pure per-account lockout state machine. It decides
// transitions over a user's counter fields; applying them is the store's
// job via atomic single-row updates.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// DefaultLockoutPolicy returns the policy with production defaults.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:  DefaultMaxLoginAttempts,
		LockDuration: DefaultLockoutDuration,
	}
}

// State classifies the account's counters at the given instant.
func (p LockoutPolicy) State(lockUntil *time.Time, now time.Time) LockState {
	if lockUntil == nil {
		return Unlocked
	}
	if now.Before(*lockUntil) {
		return Locked
	}
	return LockExpired
}

// FailureOutcome is the result of recording one failed attempt.
type FailureOutcome struct {
	Attempts  int
	LockUntil *time.Time
}

// OnFailure computes the counters after a failed password attempt against
// a currently-unlocked account: the attempt counter increments, and when
// the post-increment count reaches the threshold the lock timestamp is set
// in the same transition. An already-active lock is never extended.
func (p LockoutPolicy) OnFailure(attempts int, lockUntil *time.Time, now time.Time) FailureOutcome {
	out := FailureOutcome{
		Attempts:  attempts + 1,
		LockUntil: lockUntil,
	}
	if out.Attempts >= p.MaxAttempts && p.State(lockUntil, now) != Locked {
		until := now.Add(p.LockDuration)
		out.LockUntil = &until
	}
	return out
}

// OnSuccess returns the counters after a successful verification: the
// attempt counter and lock clear together.
func (p LockoutPolicy) OnSuccess() FailureOutcome {
	return FailureOutcome{Attempts: 0, LockUntil: nil}
}
