package region

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/boundary-api/internal/db"
)

// NormalizeTerm trims a search term and puts it in NFC form so that input
// typed with combining marks matches precomposed names such as "Ölgii".
func NormalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}

// LikePattern wraps a term for a substring LIKE match. LIKE metacharacters
// in the term are not escaped.
func LikePattern(term string) string {
	return "%" + term + "%"
}

// Search implements Searcher. A blank term returns an empty slice without
// touching the store. Otherwise provinces matching the term come first,
// followed by districts whose own or parent name matches.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]SearchResult, error) {
	term = NormalizeTerm(term)
	if term == "" {
		return []SearchResult{}, nil
	}
	pattern := LikePattern(term)

	var provinces, districts []SearchResult
	err := db.ReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if provinces, err = searchProvinces(ctx, tx, pattern); err != nil {
			return err
		}
		districts, err = searchDistricts(ctx, tx, pattern)
		return err
	})
	if err != nil {
		return nil, repoErr("search", err)
	}

	return MergeResults(provinces, districts), nil
}

// MergeResults concatenates the two search buckets, provinces first. Each
// bucket keeps its own order.
func MergeResults(provinces, districts []SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(provinces)+len(districts))
	out = append(out, provinces...)
	return append(out, districts...)
}

func searchProvinces(ctx context.Context, q db.Querier, pattern string) ([]SearchResult, error) {
	sb := builder().
		Select("gid", "name_1").
		From(tableProvinces).
		Where("LOWER(name_1) LIKE LOWER(?)", pattern).
		OrderBy("name_1", "gid")

	rows, err := query(ctx, q, sb)
	if err != nil {
		return nil, eris.Wrap(err, "search provinces")
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		res := SearchResult{Type: MatchProvince}
		if err := rows.Scan(&res.ID, &res.Name); err != nil {
			return nil, eris.Wrap(err, "scan province match")
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func searchDistricts(ctx context.Context, q db.Querier, pattern string) ([]SearchResult, error) {
	sb := builder().
		Select("s.gid", "s.name_2 || ', ' || a.name_1", "a.gid").
		From(tableDistricts + " s").
		Join(tableProvinces + " a ON s.gid_1 = a.gid_1").
		Where(squirrel.Or{
			squirrel.Expr("LOWER(s.name_2) LIKE LOWER(?)", pattern),
			squirrel.Expr("LOWER(a.name_1) LIKE LOWER(?)", pattern),
		}).
		OrderBy("a.name_1", "s.name_2", "s.gid")

	rows, err := query(ctx, q, sb)
	if err != nil {
		return nil, eris.Wrap(err, "search districts")
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		res := SearchResult{Type: MatchDistrict}
		var provinceID int64
		if err := rows.Scan(&res.ID, &res.Name, &provinceID); err != nil {
			return nil, eris.Wrap(err, "scan district match")
		}
		res.ProvinceID = &provinceID
		results = append(results, res)
	}
	return results, rows.Err()
}
