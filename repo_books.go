package booknote

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Books is the book repository; same Tx/root split as Users.
type Books interface {
	GetByID(ctx context.Context, id int64) (*Book, error)
	GetByIDTx(ctx context.Context, db bun.IDB, id int64) (*Book, error)
	List(ctx context.Context) ([]*Book, error)
	ListTx(ctx context.Context, db bun.IDB) ([]*Book, error)
	Count(ctx context.Context) (int, error)
	CountTx(ctx context.Context, db bun.IDB) (int, error)
	Create(ctx context.Context, record *Book) (*Book, error)
	CreateTx(ctx context.Context, db bun.IDB, record *Book) (*Book, error)
	Update(ctx context.Context, record *Book) (*Book, error)
	UpdateTx(ctx context.Context, db bun.IDB, record *Book) (*Book, error)
	Delete(ctx context.Context, id int64) (*Book, error)
	DeleteTx(ctx context.Context, db bun.IDB, id int64) (*Book, error)
}

type books struct {
	db *bun.DB
}

var _ Books = (*books)(nil)

// NewBooksRepository builds the bun-backed Books repository.
func NewBooksRepository(db *bun.DB) Books {
	return &books{db: db}
}

func (r *books) GetByID(ctx context.Context, id int64) (*Book, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *books) GetByIDTx(ctx context.Context, db bun.IDB, id int64) (*Book, error) {
	record := &Book{}
	err := db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFound("book not found")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "book lookup failed")
	}
	return record, nil
}

func (r *books) List(ctx context.Context) ([]*Book, error) {
	return r.ListTx(ctx, r.db)
}

func (r *books) ListTx(ctx context.Context, db bun.IDB) ([]*Book, error) {
	var records []*Book
	if err := db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list books")
	}
	return records, nil
}

func (r *books) Count(ctx context.Context) (int, error) {
	return r.CountTx(ctx, r.db)
}

func (r *books) CountTx(ctx context.Context, db bun.IDB) (int, error) {
	n, err := db.NewSelect().Model((*Book)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count books")
	}
	return n, nil
}

func (r *books) Create(ctx context.Context, record *Book) (*Book, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *books) CreateTx(ctx context.Context, db bun.IDB, record *Book) (*Book, error) {
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	if _, err := db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create book")
	}
	return record, nil
}

func (r *books) Update(ctx context.Context, record *Book) (*Book, error) {
	return r.UpdateTx(ctx, r.db, record)
}

func (r *books) UpdateTx(ctx context.Context, db bun.IDB, record *Book) (*Book, error) {
	record.UpdatedAt = time.Now()

	res, err := db.NewUpdate().Model(record).
		Column("title", "author", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update book")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, NewNotFound("book not found")
	}

	return r.GetByIDTx(ctx, db, record.ID)
}

func (r *books) Delete(ctx context.Context, id int64) (*Book, error) {
	return r.DeleteTx(ctx, r.db, id)
}

// DeleteTx returns the removed record so the delete response can echo it.
func (r *books) DeleteTx(ctx context.Context, db bun.IDB, id int64) (*Book, error) {
	record, err := r.GetByIDTx(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if _, err := db.NewDelete().Model((*Book)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to delete book")
	}
	return record, nil
}
