package region

import (
	"context"
)

// Repository answers the read queries of the boundary API.
type Repository interface {
	// ListProvinces returns every province ordered by name.
	ListProvinces(ctx context.Context) ([]Province, error)

	// ListDistricts returns the districts of one province ordered by name.
	// An unknown province or one without districts yields an empty slice.
	ListDistricts(ctx context.Context, provinceID int64) ([]District, error)

	// ListAllDistricts returns every district with its province, ordered by
	// province name then district name.
	ListAllDistricts(ctx context.Context) ([]District, error)

	// GetDistrict returns one district or ErrNotFound.
	GetDistrict(ctx context.Context, districtID int64) (*District, error)

	// ListDistrictCenters returns the centroid of each district in a
	// province, ordered by district name.
	ListDistrictCenters(ctx context.Context, provinceID int64) ([]DistrictCenter, error)
}

// Searcher runs the cross-tier name search.
type Searcher interface {
	Search(ctx context.Context, term string) ([]SearchResult, error)
}
