package booknote_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

func TestUsersCreateAssignsDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	record, err := repo.Create(ctx, &booknote.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.Equal(t, booknote.RoleUser, record.Role)
	assert.False(t, record.CreatedAt.IsZero())
	assert.False(t, record.UpdatedAt.IsZero())
}

func TestUsersLookups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seeded := seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	byID, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byEmail.ID)
}

func TestUsersLookupMiss(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	_, err := repo.GetByUsername(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, booknote.IsNotFound(err))

	_, err = repo.GetByID(ctx, 404)
	require.Error(t, err)
	assert.True(t, booknote.IsNotFound(err))
}

func TestUsersDuplicateUsernameConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	_, err := repo.Create(ctx, &booknote.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, booknote.IsConflict(err))
}

func TestUsersDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	_, err := repo.Create(ctx, &booknote.User{
		Username:     "bob",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, booknote.IsConflict(err))
}

// Concurrent registration of the same username must admit exactly one row;
// every loser gets a conflict, never a second row or a raw driver error.
func TestUsersConcurrentRegistration(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, &booknote.User{
				Username:     "alice",
				Email:        "alice@example.com",
				PasswordHash: "x",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, booknote.IsConflict(err), "loser should see a conflict, got %v", err)
	}
	assert.Equal(t, 1, winners)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsersUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seeded := seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	seeded.Username = "alice2"
	seeded.Email = "alice2@example.com"
	seeded.Role = booknote.RoleAdmin

	updated, err := repo.Update(ctx, seeded)
	require.NoError(t, err)

	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)
	assert.Equal(t, booknote.RoleAdmin, updated.Role)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

type queryRecorder struct {
	queries []string
}

func (r *queryRecorder) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (r *queryRecorder) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	r.queries = append(r.queries, event.Query)
}

// The update statement must assign every column exactly once; Postgres
// rejects a SET clause with repeated assignments even though sqlite
// tolerates them.
func TestUsersUpdateAssignsEachColumnOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seeded := seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	recorder := &queryRecorder{}
	db.AddQueryHook(recorder)

	// The stored record carries its hash, so this exercises the
	// password-included column list.
	seeded.Username = "alice2"
	_, err := repo.Update(ctx, seeded)
	require.NoError(t, err)

	var update string
	for _, q := range recorder.queries {
		if strings.HasPrefix(q, "UPDATE") {
			update = q
			break
		}
	}
	require.NotEmpty(t, update, "expected an UPDATE statement, got %v", recorder.queries)

	for _, col := range []string{"username", "email", "role", "password_hash", "updated_at"} {
		assert.Equal(t, 1, strings.Count(update, fmt.Sprintf("%q = ", col)),
			"column %s must be assigned exactly once in %s", col, update)
	}
}

func TestUsersUpdateMissingRecord(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	_, err := repo.Update(ctx, &booknote.User{
		ID:       404,
		Username: "ghost",
		Email:    "ghost@example.com",
	})
	require.Error(t, err)
	assert.True(t, booknote.IsNotFound(err))
}

func TestUsersDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	seeded := seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)

	require.NoError(t, repo.Delete(ctx, seeded.ID))

	_, err := repo.GetByID(ctx, seeded.ID)
	assert.True(t, booknote.IsNotFound(err))

	err = repo.Delete(ctx, seeded.ID)
	require.Error(t, err)
	assert.True(t, booknote.IsNotFound(err))
}

func TestUsersList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := booknote.NewUsersRepository(db)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	seedUser(t, db, "alice", "alice@example.com", "password", booknote.RoleUser)
	seedUser(t, db, "bob", "bob@example.com", "password", booknote.RoleAdmin)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
