package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost balances security and login latency.
const DefaultBcryptCost = 12

// Hasher derives and verifies one-way salted password digests using
// bcrypt. Each call to Hash generates a fresh random salt, so two hashes
// of the same plaintext never match byte-for-byte.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash derives a salted digest from the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the stored digest.
// Comparison is constant-time and fails closed: a malformed digest
// returns false rather than an error.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
