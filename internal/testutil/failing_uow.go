package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/taskgraph/internal/db"
)

// FailingUoW is a real SQLite unit of work whose FailOn-th write matching
// Match returns Err instead of running. Match is a substring of the SQL text
// (for example "INSERT INTO dependencies"); an empty Match counts every
// ExecContext. Reads are never counted. The count restarts in each
// transaction, and FailOn 0 never fails.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int
	Match  string
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	return db.NewSQLiteUnitOfWork(u.DB, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		return &failingExec{DBTX: tx, uow: u}
	})).WithinTx(ctx, fn)
}

type failingExec struct {
	db.DBTX
	uow  *FailingUoW
	seen int
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.seen++
		if f.seen == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
