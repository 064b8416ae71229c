// Package auth holds the credential primitives of the server: bcrypt password
// hashing and HS256 access/refresh token issuing and verification.
package auth

import (
	"fmt"

	"github.com/dmitrijs2005/staybook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// PasswordHasher turns plaintext passwords into storable hashes and checks
// candidates against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes never match.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside bcrypt's
// accepted range fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor new hashes are created with.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b := []byte(password)
	defer common.WipeByteArray(b)

	hash, err := bcrypt.GenerateFromPassword(b, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compares password with hash in constant time.
func (h *BcryptHasher) Verify(password, hash string) bool {
	b := []byte(password)
	defer common.WipeByteArray(b)

	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}
