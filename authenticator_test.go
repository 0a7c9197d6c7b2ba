package booknote_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

func newTestAuther(db *bun.DB) *booknote.Auther {
	provider := booknote.NewUserProvider(booknote.NewUsersRepository(db), booknote.NewPasswordHasher(0))
	tokens := booknote.NewTokenService(testSigningKey, time.Hour, "test-issuer")
	return booknote.NewAuthenticator(provider, tokens)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)
	auther := newTestAuther(db)

	token, err := auther.Login(ctx, db, "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := auther.ResolveIdentity(ctx, db, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username())
	assert.Equal(t, booknote.RoleUser, identity.Role())
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)
	auther := newTestAuther(db)

	_, err := auther.Login(ctx, db, "alice", "nope")
	assert.ErrorIs(t, err, booknote.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	auther := newTestAuther(db)

	_, err := auther.Login(ctx, db, "ghost", "nope")
	assert.ErrorIs(t, err, booknote.ErrInvalidCredentials)
}

func TestResolveIdentityGarbageToken(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	auther := newTestAuther(db)

	_, err := auther.ResolveIdentity(ctx, db, "not-a-token")
	assert.ErrorIs(t, err, booknote.ErrUnauthenticated)
}

func TestResolveIdentityExpiredToken(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)

	svc := booknote.NewTokenService(testSigningKey, time.Hour, "test-issuer")
	now := time.Now()
	token, err := svc.SignClaims(&booknote.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserRole: string(booknote.RoleUser),
	})
	require.NoError(t, err)

	auther := newTestAuther(db)
	_, err = auther.ResolveIdentity(ctx, db, token)
	assert.ErrorIs(t, err, booknote.ErrUnauthenticated)
}

func TestResolveIdentityDeletedSubject(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seeded := seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)
	auther := newTestAuther(db)

	token, err := auther.Login(ctx, db, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, booknote.NewUsersRepository(db).Delete(ctx, seeded.ID))

	// A syntactically valid token whose subject is gone fails resolution
	// exactly like a forged one.
	_, err = auther.ResolveIdentity(ctx, db, token)
	assert.ErrorIs(t, err, booknote.ErrUnauthenticated)
}

func TestResolveAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", "alice@example.com", "correct-horse", booknote.RoleUser)
	seedUser(t, db, "root", "root@example.com", "correct-horse", booknote.RoleAdmin)
	auther := newTestAuther(db)

	userToken, err := auther.Login(ctx, db, "alice", "correct-horse")
	require.NoError(t, err)
	adminToken, err := auther.Login(ctx, db, "root", "correct-horse")
	require.NoError(t, err)

	_, err = auther.ResolveAdmin(ctx, db, userToken)
	assert.ErrorIs(t, err, booknote.ErrForbidden)

	identity, err := auther.ResolveAdmin(ctx, db, adminToken)
	require.NoError(t, err)
	assert.Equal(t, "root", identity.Username())
}
