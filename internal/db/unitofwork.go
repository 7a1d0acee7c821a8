package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what the SQLite repositories run statements against: the pool for
// plain reads, or a transaction inside a UnitOfWork.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TxFunc is one schedule write. Repositories built from tx see its
// uncommitted rows; anything it returns rolls the whole write back.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork runs a TxFunc atomically.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork gives every TxFunc its own database/sql transaction.
type SQLiteUnitOfWork struct {
	db   *sql.DB
	wrap func(DBTX) DBTX
}

// Option configures a SQLiteUnitOfWork.
type Option func(*SQLiteUnitOfWork)

// WithTxWrapper decorates the handle each TxFunc receives.
func WithTxWrapper(wrap func(DBTX) DBTX) Option {
	return func(u *SQLiteUnitOfWork) { u.wrap = wrap }
}

func NewSQLiteUnitOfWork(db *sql.DB, opts ...Option) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: db}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithinTx commits when fn returns nil. On an error or a panic the
// transaction is rolled back; a panic is re-raised afterwards.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	var h DBTX = tx
	if u.wrap != nil {
		h = u.wrap(tx)
	}
	if err := fn(ctx, h); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
