package booknote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

func TestVerifyIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)

	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))

	identity, err := provider.VerifyIdentity(ctx, db, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username())
	assert.Equal(t, "alice@example.com", identity.Email())
	assert.Equal(t, booknote.RoleUser, identity.Role())
	assert.NotEmpty(t, identity.ID())
}

func TestVerifyIdentityWrongPassword(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)

	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))

	_, err := provider.VerifyIdentity(ctx, db, "alice", "battery-staple")
	assert.ErrorIs(t, err, booknote.ErrInvalidCredentials)
}

func TestVerifyIdentityUnknownUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))

	_, err := provider.VerifyIdentity(ctx, db, "ghost", "whatever")
	// Identical to the wrong-password error so responses cannot be used to
	// probe for registered usernames.
	assert.ErrorIs(t, err, booknote.ErrInvalidCredentials)
}

func TestFindIdentityByIdentifier(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleAdmin)

	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))

	identity, err := provider.FindIdentityByIdentifier(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, booknote.RoleAdmin, identity.Role())
}

func TestFindIdentityByIdentifierMiss(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))

	_, err := provider.FindIdentityByIdentifier(ctx, db, "ghost")
	assert.ErrorIs(t, err, booknote.ErrIdentityNotFound)
}
