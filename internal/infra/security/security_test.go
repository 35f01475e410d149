package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	t.Run("round trip", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery")
		require.NoError(t, err)
		assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
		assert.Error(t, hasher.Compare(hash, "wrong password"))
	})

	t.Run("rejects input past the bcrypt limit", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("x", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})
}

func TestRandomTokenGenerator(t *testing.T) {
	gen := RandomTokenGenerator{}

	first, err := gen.NewToken()
	require.NoError(t, err)
	second, err := gen.NewToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "frt_"))
	assert.NotEqual(t, first, second)
}
