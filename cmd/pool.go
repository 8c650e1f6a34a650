package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/boundary-api/internal/db"
)

// openPool connects to the configured PostGIS database, waiting up to
// store.connect_timeout_secs for it to accept connections.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("no database_url configured (set BOUNDARY_STORE_DATABASE_URL)")
	}

	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL, db.PoolOptions{
		MaxConns:       cfg.Store.MaxConns,
		MinConns:       cfg.Store.MinConns,
		ConnectTimeout: time.Duration(cfg.Store.ConnectTimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}
	return pool, nil
}
