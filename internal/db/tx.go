package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// ReadOnly runs fn inside a read-only transaction. The transaction holds one
// pooled connection for the duration of fn and is always released: committed
// when fn succeeds, rolled back on every other exit path.
func ReadOnly(ctx context.Context, pool Pool, fn func(tx pgx.Tx) error) error {
	return inTx(ctx, pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// InTx runs fn inside a read-write transaction with the same release rules as
// ReadOnly.
func InTx(ctx context.Context, pool Pool, fn func(tx pgx.Tx) error) error {
	return inTx(ctx, pool, pgx.TxOptions{}, fn)
}

func inTx(ctx context.Context, pool Pool, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return eris.Wrap(err, "db: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "db: commit tx")
	}
	return nil
}
