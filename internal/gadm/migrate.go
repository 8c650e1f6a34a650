package gadm

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/db"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationLockID = 8675311

// Migrate applies pending SQL migrations in file name order, each recorded in
// boundary_schema_migrations. Everything runs in one transaction holding a
// transaction-scoped advisory lock, so concurrent runs serialize and a failed
// migration leaves nothing behind.
func Migrate(ctx context.Context, pool db.Pool) ([]string, error) {
	log := zap.L().With(zap.String("component", "gadm.migrate"))

	names, err := MigrationNames()
	if err != nil {
		return nil, err
	}

	var ran []string
	err = db.InTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(migrationLockID)); err != nil {
			return eris.Wrap(err, "gadm: acquire migration lock")
		}

		if _, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS boundary_schema_migrations (
				filename   TEXT PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`); err != nil {
			return eris.Wrap(err, "gadm: ensure migration table")
		}

		applied, err := appliedMigrations(ctx, tx)
		if err != nil {
			return err
		}

		for _, name := range names {
			if applied[name] {
				continue
			}

			sql, err := migrationFS.ReadFile("migrations/" + name)
			if err != nil {
				return eris.Wrapf(err, "gadm: read migration %s", name)
			}

			log.Info("applying migration", zap.String("file", name))
			if _, err := tx.Exec(ctx, string(sql)); err != nil {
				return eris.Wrapf(err, "gadm: apply migration %s", name)
			}
			if _, err := tx.Exec(ctx,
				"INSERT INTO boundary_schema_migrations (filename) VALUES ($1)", name,
			); err != nil {
				return eris.Wrapf(err, "gadm: record migration %s", name)
			}
			ran = append(ran, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("migrations complete", zap.Int("applied", len(ran)), zap.Int("total", len(names)))
	return ran, nil
}

// MigrationNames lists the embedded migrations in apply order.
func MigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "gadm: read migration dir")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func appliedMigrations(ctx context.Context, q db.Querier) (map[string]bool, error) {
	rows, err := q.Query(ctx, "SELECT filename FROM boundary_schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "gadm: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "gadm: scan migration row")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
