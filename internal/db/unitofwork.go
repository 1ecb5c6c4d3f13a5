package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork groups the writes of one operation (confirming a draft, toggling
// a task) into a single transaction. fn builds tx-scoped repositories from
// the DBTX it receives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork is the UnitOfWork used by the CLI.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	return RunInTx(ctx, u.db, nil, fn)
}

// RunInTx begins a transaction on database, hands fn the transaction (passed
// through wrap when wrap is non-nil) and commits if fn succeeds. An error or
// panic from fn rolls everything back; the panic is re-raised afterwards.
func RunInTx(ctx context.Context, database *sql.DB, wrap func(*sql.Tx) DBTX, fn TxFunc) (err error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	var scoped DBTX = tx
	if wrap != nil {
		scoped = wrap(tx)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
	}()

	if err = fn(ctx, scoped); err != nil {
		return err
	}
	committed = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
