package gadm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/boundary-api/internal/db"
)

// LoadOptions configures a dataset load.
type LoadOptions struct {
	BaseURL   string // archive mirror; empty = DefaultBaseURL
	Country   string // ISO 3166-1 alpha-3 (default MNG)
	TempDir   string // download directory (default /tmp/gadm)
	Dir       string // already-extracted shapefiles; skips the download
	BatchSize int    // COPY batch size (0 = db.DefaultBatchSize)
	DryRun    bool   // parse and count without touching the database
}

// TableLoad reports one loaded table.
type TableLoad struct {
	Table    string
	Rows     int64
	Duration time.Duration
}

// StatusRow is a row of gadm_load_status.
type StatusRow struct {
	TableName  string
	Country    string
	RowCount   int
	Source     string
	LoadedAt   time.Time
	DurationMs int
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Load fetches a GADM country archive, parses levels 1 and 2 in parallel and
// replaces the contents of both tables in one transaction, so readers see
// either the old dataset or the new one.
func Load(ctx context.Context, pool db.Pool, opts LoadOptions) ([]TableLoad, error) {
	if opts.Country == "" {
		opts.Country = "MNG"
	}
	if opts.TempDir == "" {
		opts.TempDir = "/tmp/gadm"
	}

	log := zap.L().With(
		zap.String("component", "gadm.loader"),
		zap.String("country", opts.Country),
	)

	source := opts.Dir
	dir := opts.Dir
	if dir == "" {
		source = ArchiveURL(opts.BaseURL, opts.Country)
		var err error
		dir, err = Download(ctx, source, opts.TempDir)
		if err != nil {
			return nil, err
		}
	}
	log.Info("reading shapefiles", zap.String("dir", dir))

	start := time.Now()
	parsed, err := parseLayers(ctx, dir, opts.Country)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		loads := make([]TableLoad, len(Layers))
		for i, layer := range Layers {
			loads[i] = TableLoad{Table: layer.Table(opts.Country), Rows: int64(len(parsed[i]))}
			log.Info("dry run, skipping load", zap.String("table", loads[i].Table), zap.Int("rows", len(parsed[i])))
		}
		return loads, nil
	}

	loads := make([]TableLoad, 0, len(Layers))
	err = db.InTx(ctx, pool, func(tx pgx.Tx) error {
		loads = loads[:0]
		for i, layer := range Layers {
			tableStart := time.Now()
			table := layer.Table(opts.Country)

			if err := truncate(ctx, tx, table); err != nil {
				return err
			}
			n, err := db.CopyFrom(ctx, tx, pgx.Identifier{table}, layer.CopyColumns(), parsed[i], opts.BatchSize)
			if err != nil {
				return eris.Wrapf(err, "gadm: load %s", table)
			}

			elapsed := time.Since(tableStart)
			if err := recordLoad(ctx, tx, table, opts.Country, source, n, elapsed); err != nil {
				return err
			}
			loads = append(loads, TableLoad{Table: table, Rows: n, Duration: elapsed})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, l := range loads {
		log.Info("table loaded", zap.String("table", l.Table), zap.Int64("rows", l.Rows))
	}
	log.Info("GADM load complete", zap.Duration("duration", time.Since(start)))
	return loads, nil
}

// parseLayers parses every layer's shapefile concurrently; the result is
// indexed like Layers.
func parseLayers(ctx context.Context, dir, country string) ([][][]any, error) {
	parsed := make([][][]any, len(Layers))

	g, _ := errgroup.WithContext(ctx)
	for i, layer := range Layers {
		g.Go(func() error {
			path := filepath.Join(dir, layer.Shapefile(country))
			if _, err := os.Stat(path); err != nil {
				return eris.Wrapf(err, "gadm: level %d shapefile", layer.Level)
			}
			rows, err := ParseShapefile(path, layer)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return eris.Errorf("gadm: %s has no usable records", layer.Shapefile(country))
			}
			parsed[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func truncate(ctx context.Context, tx execer, table string) error {
	sql := fmt.Sprintf("TRUNCATE %s", pgx.Identifier{table}.Sanitize())
	if _, err := tx.Exec(ctx, sql); err != nil {
		return eris.Wrapf(err, "gadm: truncate %s", table)
	}
	return nil
}

func recordLoad(ctx context.Context, tx execer, table, country, source string, rows int64, elapsed time.Duration) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO gadm_load_status (table_name, country, row_count, source, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (table_name) DO UPDATE SET
			country = EXCLUDED.country,
			row_count = EXCLUDED.row_count,
			source = EXCLUDED.source,
			loaded_at = now(),
			duration_ms = EXCLUDED.duration_ms`,
		table, country, rows, source, elapsed.Milliseconds(),
	)
	if err != nil {
		return eris.Wrapf(err, "gadm: record load status for %s", table)
	}
	return nil
}

// LoadStatus returns gadm_load_status ordered by table.
func LoadStatus(ctx context.Context, q db.Querier) ([]StatusRow, error) {
	rows, err := q.Query(ctx, `
		SELECT table_name, country, row_count, COALESCE(source, ''), loaded_at, COALESCE(duration_ms, 0)
		FROM gadm_load_status
		ORDER BY table_name`)
	if err != nil {
		return nil, eris.Wrap(err, "gadm: query load status")
	}
	defer rows.Close()

	status := []StatusRow{}
	for rows.Next() {
		var sr StatusRow
		if err := rows.Scan(&sr.TableName, &sr.Country, &sr.RowCount, &sr.Source, &sr.LoadedAt, &sr.DurationMs); err != nil {
			return nil, eris.Wrap(err, "gadm: scan load status row")
		}
		status = append(status, sr)
	}
	return status, rows.Err()
}
