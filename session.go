package booknote

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// SessionProvider yields one unit of work per request over the shared bun
// pool. Acquisition is bounded by the request context: if the pool cannot
// produce a connection before the context is done, the caller gets
// ErrUnavailable instead of waiting forever.
type SessionProvider struct {
	db     *bun.DB
	logger Logger
}

// NewSessionProvider wraps the shared database handle.
func NewSessionProvider(db *bun.DB) *SessionProvider {
	return &SessionProvider{db: db, logger: defLogger{}}
}

// WithLogger replaces the default logger.
func (p *SessionProvider) WithLogger(logger Logger) *SessionProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Acquire opens a transaction bound to ctx. The driver rolls the
// transaction back if ctx is cancelled mid-flight, so an aborted request
// never leaves partial writes behind; Close covers every other exit path.
func (p *SessionProvider) Acquire(ctx context.Context) (*Session, error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		p.logger.Error("session acquire failed", "error", err)
		return nil, errors.Wrap(err, ErrUnavailable.Category, ErrUnavailable.Message).
			WithTextCode(ErrUnavailable.TextCode)
	}
	return &Session{tx: tx}, nil
}

// RunInSession acquires a session, runs fn, and commits only when fn
// returns nil. Any error path rolls back before the error is surfaced.
func (p *SessionProvider) RunInSession(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	sess, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := fn(ctx, sess.DB()); err != nil {
		return err
	}
	return sess.Commit()
}

// Session is a request-scoped unit of work. Callers that write must call
// Commit explicitly; Close is a no-op after Commit and a rollback before
// it, so deferring Close makes rollback the default outcome.
type Session struct {
	tx   bun.Tx
	done bool
}

// DB exposes the transactional handle repositories operate on.
func (s *Session) DB() bun.IDB {
	return s.tx
}

// Commit makes the session's changes durable and releases the connection.
func (s *Session) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to commit unit of work")
	}
	return nil
}

// Close rolls back an uncommitted session and releases the connection.
// Safe to call more than once and after Commit.
func (s *Session) Close() {
	if s.done {
		return
	}
	s.done = true
	_ = s.tx.Rollback()
}
