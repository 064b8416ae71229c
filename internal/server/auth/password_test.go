package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"secret1", "пароль-123", "a b c d e f", "x"} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash, "hash must not be the plaintext")

		assert.True(t, h.Verify(pw, hash), "verify(hash(p), p) must hold for %q", pw)
		assert.False(t, h.Verify(pw+"!", hash), "a different password must not verify")
		assert.False(t, h.Verify("", hash))
	}
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_MalformedHashNeverMatches(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	for _, bad := range []string{"", "plain", "$2a$", "$argon2id$v=19$m=65536,t=1,p=4$AAAA$BBBB"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret1", bad))
		})
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, NewBcryptHasher(10).Cost())
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())

	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("secret1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_TooLongPassword(t *testing.T) {
	t.Parallel()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(string(long))
	assert.Error(t, err)
}
