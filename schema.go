package booknote

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Models lists every bun model the service persists.
func Models() []any {
	return []any{
		(*User)(nil),
		(*Book)(nil),
	}
}

// CreateTables creates the schema at startup when it does not exist yet.
// There is no migration story; the two tables are stable.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create table")
		}
	}
	return nil
}
