package region

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/boundary-api/internal/db"
)

// Source tables, as produced by the GADM 4.1 shapefile import.
const (
	tableProvinces = "gadm41_mng_1"
	tableDistricts = "gadm41_mng_2"
)

// PostgresRepository implements Repository and Searcher on PostGIS. Every
// call runs in its own read-only transaction, so one pooled connection is
// held for the call and released on every exit path.
type PostgresRepository struct {
	pool db.Pool
}

// NewPostgresRepository creates a PostgresRepository.
func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// builder returns a squirrel statement builder using $n placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// districtQuery selects districts joined to their province. Geometry and
// centroid are derived from the same s.geom value.
func districtQuery() squirrel.SelectBuilder {
	return builder().
		Select(
			"s.gid",
			"s.name_2",
			"a.gid",
			"a.name_1",
			"ST_AsGeoJSON(s.geom)",
			"ST_AsGeoJSON(ST_Centroid(s.geom))",
		).
		From(tableDistricts + " s").
		Join(tableProvinces + " a ON s.gid_1 = a.gid_1")
}

// ListProvinces implements Repository.
func (r *PostgresRepository) ListProvinces(ctx context.Context) ([]Province, error) {
	var provinces []Province
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		q := builder().
			Select("gid", "name_1", "ST_AsGeoJSON(geom)").
			From(tableProvinces).
			OrderBy("name_1", "gid")

		rows, err := query(ctx, tx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		provinces = []Province{}
		for rows.Next() {
			var p Province
			if err := rows.Scan(&p.ID, &p.Name, &p.Geometry); err != nil {
				return eris.Wrap(err, "scan province row")
			}
			provinces = append(provinces, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, repoErr("list provinces", err)
	}
	return provinces, nil
}

// ListDistricts implements Repository.
func (r *PostgresRepository) ListDistricts(ctx context.Context, provinceID int64) ([]District, error) {
	var districts []District
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		q := districtQuery().
			Where(squirrel.Eq{"a.gid": provinceID}).
			OrderBy("s.name_2", "s.gid")

		var err error
		districts, err = collectDistricts(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, repoErr("list districts", err)
	}
	return districts, nil
}

// ListAllDistricts implements Repository.
func (r *PostgresRepository) ListAllDistricts(ctx context.Context) ([]District, error) {
	var districts []District
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		q := districtQuery().OrderBy("a.name_1", "s.name_2", "s.gid")

		var err error
		districts, err = collectDistricts(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, repoErr("list all districts", err)
	}
	return districts, nil
}

// GetDistrict implements Repository.
func (r *PostgresRepository) GetDistrict(ctx context.Context, districtID int64) (*District, error) {
	var d District
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		sql, args, err := districtQuery().Where(squirrel.Eq{"s.gid": districtID}).ToSql()
		if err != nil {
			return eris.Wrap(err, "build query")
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(
			&d.ID, &d.Name, &d.ProvinceID, &d.ProvinceName, &d.Geometry, &d.Center,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return eris.Wrap(err, "scan district row")
	})
	if err != nil {
		return nil, repoErr("get district", err)
	}
	return &d, nil
}

// ListDistrictCenters implements Repository.
func (r *PostgresRepository) ListDistrictCenters(ctx context.Context, provinceID int64) ([]DistrictCenter, error) {
	var centers []DistrictCenter
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		q := builder().
			Select(
				"s.name_2",
				"ST_X(ST_Centroid(s.geom))",
				"ST_Y(ST_Centroid(s.geom))",
			).
			From(tableDistricts + " s").
			Join(tableProvinces + " a ON s.gid_1 = a.gid_1").
			Where(squirrel.Eq{"a.gid": provinceID}).
			OrderBy("s.name_2", "s.gid")

		rows, err := query(ctx, tx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		centers = []DistrictCenter{}
		for rows.Next() {
			var c DistrictCenter
			if err := rows.Scan(&c.Name, &c.Longitude, &c.Latitude); err != nil {
				return eris.Wrap(err, "scan center row")
			}
			centers = append(centers, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, repoErr("list district centers", err)
	}
	return centers, nil
}

// query renders sb and runs it on q.
func query(ctx context.Context, q db.Querier, sb squirrel.SelectBuilder) (pgx.Rows, error) {
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "build query")
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "query")
	}
	return rows, nil
}

// collectDistricts runs a districtQuery and scans every row.
func collectDistricts(ctx context.Context, q db.Querier, sb squirrel.SelectBuilder) ([]District, error) {
	rows, err := query(ctx, q, sb)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	districts := []District{}
	for rows.Next() {
		var d District
		if err := rows.Scan(
			&d.ID, &d.Name, &d.ProvinceID, &d.ProvinceName, &d.Geometry, &d.Center,
		); err != nil {
			return nil, eris.Wrap(err, "scan district row")
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}
