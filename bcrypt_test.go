package booknote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := booknote.HashPassword("sup3r-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "sup3r-secret", hash)

	require.NoError(t, booknote.ComparePasswordAndHash("sup3r-secret", hash))
}

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	first, err := booknote.HashPassword("same-password")
	require.NoError(t, err)

	second, err := booknote.HashPassword("same-password")
	require.NoError(t, err)

	// Random salt means two hashes of the same input never match.
	assert.NotEqual(t, first, second)

	require.NoError(t, booknote.ComparePasswordAndHash("same-password", first))
	require.NoError(t, booknote.ComparePasswordAndHash("same-password", second))
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	hash, err := booknote.HashPassword("right-password")
	require.NoError(t, err)

	err = booknote.ComparePasswordAndHash("wrong-password", hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, booknote.ErrMismatchedHashAndPassword)
}

func TestComparePasswordAndHashMalformedHash(t *testing.T) {
	err := booknote.ComparePasswordAndHash("whatever", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.ErrorIs(t, err, booknote.ErrMismatchedHashAndPassword)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := booknote.HashPassword("")
	assert.ErrorIs(t, err, booknote.ErrNoEmptyString)
}

func TestNewPasswordHasherCostFallback(t *testing.T) {
	hasher := booknote.NewPasswordHasher(1000)

	hash, err := hasher.HashPassword("secret")
	require.NoError(t, err)
	require.NoError(t, hasher.ComparePasswordAndHash("secret", hash))
}
