package db

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PoolOptions holds optional connection pool tuning parameters.
type PoolOptions struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration // total time budget for the startup ping
}

// Pinger is implemented by anything that can check database liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connect parses connString, opens a pgxpool and waits for the database to
// answer a ping, retrying with exponential backoff until ConnectTimeout.
func Connect(ctx context.Context, connString string, opts PoolOptions) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "db: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if opts.MaxConns > 0 {
		maxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		minConns = opts.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "db: create pool")
	}

	if err := WaitForPing(ctx, pool, opts.ConnectTimeout); err != nil {
		pool.Close()
		return nil, err
	}

	zap.L().Info("database connected",
		zap.Int32("max_conns", maxConns),
		zap.Int32("min_conns", minConns),
	)
	return pool, nil
}

// WaitForPing pings p until it succeeds, ctx is done, or maxElapsed passes.
// A zero maxElapsed means a single attempt.
func WaitForPing(ctx context.Context, p Pinger, maxElapsed time.Duration) error {
	if maxElapsed <= 0 {
		return eris.Wrap(p.Ping(ctx), "db: ping")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	op := func() error {
		return p.Ping(ctx)
	}
	notify := func(err error, wait time.Duration) {
		zap.L().Warn("database not ready, retrying",
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return eris.Wrap(err, "db: ping")
	}
	return nil
}
