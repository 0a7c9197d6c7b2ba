package booknote

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Users is the user repository. Every method has a Tx variant taking a
// bun.IDB so handlers can run it inside the request's unit of work; the
// plain variants operate on the root pool.
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByIDTx(ctx context.Context, db bun.IDB, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, db bun.IDB, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, db bun.IDB, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListTx(ctx context.Context, db bun.IDB) ([]*User, error)
	Count(ctx context.Context) (int, error)
	CountTx(ctx context.Context, db bun.IDB) (int, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, db bun.IDB, record *User) (*User, error)
	Update(ctx context.Context, record *User) (*User, error)
	UpdateTx(ctx context.Context, db bun.IDB, record *User) (*User, error)
	Delete(ctx context.Context, id int64) error
	DeleteTx(ctx context.Context, db bun.IDB, id int64) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the bun-backed Users repository.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (r *users) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *users) GetByIDTx(ctx context.Context, db bun.IDB, id int64) (*User, error) {
	record := &User{}
	err := db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapUserLookupError(err, "user not found")
	}
	return record, nil
}

func (r *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.GetByUsernameTx(ctx, r.db, username)
}

func (r *users) GetByUsernameTx(ctx context.Context, db bun.IDB, username string) (*User, error) {
	record := &User{}
	err := db.NewSelect().Model(record).Where("?TableAlias.username = ?", username).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapUserLookupError(err, "user not found")
	}
	return record, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *users) GetByEmailTx(ctx context.Context, db bun.IDB, email string) (*User, error) {
	record := &User{}
	err := db.NewSelect().Model(record).Where("?TableAlias.email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapUserLookupError(err, "user not found")
	}
	return record, nil
}

func (r *users) List(ctx context.Context) ([]*User, error) {
	return r.ListTx(ctx, r.db)
}

// ListTx propagates store errors instead of returning an empty slice; the
// caller decides how a read failure surfaces.
func (r *users) ListTx(ctx context.Context, db bun.IDB) ([]*User, error) {
	var records []*User
	if err := db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

func (r *users) Count(ctx context.Context) (int, error) {
	return r.CountTx(ctx, r.db)
}

func (r *users) CountTx(ctx context.Context, db bun.IDB) (int, error) {
	n, err := db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count users")
	}
	return n, nil
}

func (r *users) Create(ctx context.Context, record *User) (*User, error) {
	return r.CreateTx(ctx, r.db, record)
}

// CreateTx inserts the record. Uniqueness of username and email is enforced
// by the store; when two registrations race, the second insert loses here
// and surfaces as a conflict.
func (r *users) CreateTx(ctx context.Context, db bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	if _, err := db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, NewConflict("username or email already registered")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}
	return record, nil
}

func (r *users) Update(ctx context.Context, record *User) (*User, error) {
	return r.UpdateTx(ctx, r.db, record)
}

func (r *users) UpdateTx(ctx context.Context, db bun.IDB, record *User) (*User, error) {
	record.UpdatedAt = time.Now()

	// Column appends; assemble the list once so no column is assigned twice.
	cols := []string{"username", "email", "role", "updated_at"}
	if record.PasswordHash != "" {
		cols = append(cols, "password_hash")
	}

	res, err := db.NewUpdate().Model(record).
		Column(cols...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewConflict("username or email already registered")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, NewNotFound("user not found")
	}

	return r.GetByIDTx(ctx, db, record.ID)
}

func (r *users) Delete(ctx context.Context, id int64) error {
	return r.DeleteTx(ctx, r.db, id)
}

func (r *users) DeleteTx(ctx context.Context, db bun.IDB, id int64) error {
	res, err := db.NewDelete().Model((*User)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewNotFound("user not found")
	}
	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}
	if record.Role == "" {
		record.Role = RoleUser
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
}

func mapUserLookupError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFound(message)
	}
	return errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
}

// isUniqueViolation recognizes unique-constraint rejections from both the
// production driver (Postgres 23505) and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
