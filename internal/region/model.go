// Package region reads the two-level administrative hierarchy (provinces,
// called aimags, and their districts, called sums) from PostGIS.
package region

import (
	"github.com/shopspring/decimal"
)

// Province is a top-level administrative unit (aimag).
type Province struct {
	ID       int64
	Name     string
	Geometry []byte // GeoJSON text from ST_AsGeoJSON
}

// District is a second-level administrative unit (sum) with its parent
// province and the centroid of its boundary.
type District struct {
	ID           int64
	Name         string
	ProvinceID   int64
	ProvinceName string
	Geometry     []byte // GeoJSON text from ST_AsGeoJSON
	Center       []byte // GeoJSON Point text from ST_AsGeoJSON(ST_Centroid)
}

// DistrictCenter is a district name with its centroid coordinates, kept in
// the store's numeric representation. The coordinates are invalid when the
// district's boundary is null or empty, since ST_Centroid then yields NULL.
type DistrictCenter struct {
	Name      string
	Longitude decimal.NullDecimal
	Latitude  decimal.NullDecimal
}

// HasCoordinates reports whether both coordinates are present.
func (c DistrictCenter) HasCoordinates() bool {
	return c.Longitude.Valid && c.Latitude.Valid
}

// MatchType tags a search result with the tier it came from.
type MatchType string

// Search result tiers.
const (
	MatchProvince MatchType = "aimag"
	MatchDistrict MatchType = "sum"
)

// SearchResult is one hit from Search. ProvinceID is set only for district
// matches.
type SearchResult struct {
	ID         int64
	Name       string
	Type       MatchType
	ProvinceID *int64
}
