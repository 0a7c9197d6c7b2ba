package booknote

import (
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager bundles the repositories handlers need.
type RepositoryManager interface {
	Users() Users
	Books() Books
	Validate() error
}

type repositoryManager struct {
	db    *bun.DB
	users Users
	books Books
}

// NewRepositoryManager builds all repositories over one shared handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &repositoryManager{
		db:    db,
		users: NewUsersRepository(db),
		books: NewBooksRepository(db),
	}
}

func (m *repositoryManager) Users() Users {
	return m.users
}

func (m *repositoryManager) Books() Books {
	return m.books
}

func (m *repositoryManager) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database handle", errors.CategoryInternal)
	}
	if m.users == nil || m.books == nil {
		return errors.New("repository manager is missing repositories", errors.CategoryInternal)
	}
	return nil
}
