package booknote_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

// newTestDB returns an isolated in-memory database with the schema applied.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// A single connection keeps the private in-memory database alive for
	// the whole test.
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, booknote.CreateTables(context.Background(), db))

	return db
}

func seedUser(t *testing.T, db *bun.DB, username, email, password string, role booknote.Role) *booknote.User {
	t.Helper()

	hash, err := booknote.HashPassword(password)
	require.NoError(t, err)

	record, err := booknote.NewUsersRepository(db).Create(context.Background(), &booknote.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)
	return record
}
