package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/averyhollis/fabline/internal/db"
)

// FailOnExecUoW is a UnitOfWork that injects an error on the Nth
// ExecContext call whose SQL contains Match. Import rollback tests use it
// to fail partway through a multi-row backlog write and prove that the
// rows already written inside the transaction do not survive.
//
// Matching calls are counted from 1; an empty Match counts every write.
// Reads pass through untouched.
type FailOnExecUoW struct {
	DB     *sql.DB
	Match  string
	FailOn int32
	Err    error
}

func (u *FailOnExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &execFailer{DBTX: tx, match: u.Match, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type execFailer struct {
	db.DBTX
	count  atomic.Int32
	match  string
	failOn int32
	err    error
}

func (f *execFailer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match == "" || strings.Contains(query, f.match) {
		if n := f.count.Add(1); n == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
