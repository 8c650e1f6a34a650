package api

import (
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/geometry"
	"github.com/sells-group/boundary-api/internal/metrics"
	"github.com/sells-group/boundary-api/internal/region"
)

// AimagResponse is one item of GET /api/aimags.
type AimagResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Geometry geometry.Geometry `json:"geometry"`
}

// AimagSumResponse is one item of GET /api/aimags/{aimagId}/sums. It has no
// parent fields because the parent is in the path.
type AimagSumResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Geometry geometry.Geometry `json:"geometry"`
	Center   geometry.Geometry `json:"center"`
}

// SumResponse is one item of GET /api/sums and the body of GET /api/sums/{sumId}.
type SumResponse struct {
	ID        int64             `json:"id"`
	SumName   string            `json:"sum_name"`
	AimagName string            `json:"aimag_name"`
	AimagID   int64             `json:"aimag_id"`
	Geometry  geometry.Geometry `json:"geometry"`
	Center    geometry.Geometry `json:"center"`
}

// SumCenterResponse is one item of GET /api/aimags/{aimagId}/sums/centers.
// The coordinates are null for a sum without a usable boundary.
type SumCenterResponse struct {
	SumName   string   `json:"sum_name"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// SearchResponse is one item of GET /api/search. AimagID is present only
// for sum matches.
type SearchResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	AimagID *int64 `json:"aimag_id,omitempty"`
}

// Shaper maps repository values to response items. A stored geometry that
// cannot be decoded becomes null in the response and is logged; it never
// fails the request.
type Shaper struct {
	metrics *metrics.Metrics
}

// NewShaper creates a Shaper. m may be nil.
func NewShaper(m *metrics.Metrics) Shaper {
	return Shaper{metrics: m}
}

// Aimags shapes the province listing.
func (s Shaper) Aimags(provinces []region.Province) []AimagResponse {
	out := make([]AimagResponse, 0, len(provinces))
	for _, p := range provinces {
		out = append(out, AimagResponse{
			ID:       p.ID,
			Name:     p.Name,
			Geometry: s.boundary("aimag", p.ID, p.Geometry),
		})
	}
	return out
}

// AimagSums shapes the province-scoped district listing.
func (s Shaper) AimagSums(districts []region.District) []AimagSumResponse {
	out := make([]AimagSumResponse, 0, len(districts))
	for _, d := range districts {
		out = append(out, AimagSumResponse{
			ID:       d.ID,
			Name:     d.Name,
			Geometry: s.boundary("sum", d.ID, d.Geometry),
			Center:   s.center(d.ID, d.Center),
		})
	}
	return out
}

// Sum shapes one district with its parent.
func (s Shaper) Sum(d region.District) SumResponse {
	return SumResponse{
		ID:        d.ID,
		SumName:   d.Name,
		AimagName: d.ProvinceName,
		AimagID:   d.ProvinceID,
		Geometry:  s.boundary("sum", d.ID, d.Geometry),
		Center:    s.center(d.ID, d.Center),
	}
}

// Sums shapes the flattened district listing.
func (s Shaper) Sums(districts []region.District) []SumResponse {
	out := make([]SumResponse, 0, len(districts))
	for _, d := range districts {
		out = append(out, s.Sum(d))
	}
	return out
}

// SumCenters shapes the centers listing, coercing coordinates to float64.
func (s Shaper) SumCenters(centers []region.DistrictCenter) []SumCenterResponse {
	out := make([]SumCenterResponse, 0, len(centers))
	for _, c := range centers {
		item := SumCenterResponse{SumName: c.Name}
		if c.HasCoordinates() {
			lon, lat := c.Longitude.Decimal.InexactFloat64(), c.Latitude.Decimal.InexactFloat64()
			item.Longitude, item.Latitude = &lon, &lat
		} else {
			zap.L().Warn("api: sum has no centroid", zap.String("sum_name", c.Name))
			s.countDegraded("center")
		}
		out = append(out, item)
	}
	return out
}

// Search shapes search results.
func (s Shaper) Search(results []region.SearchResult) []SearchResponse {
	out := make([]SearchResponse, 0, len(results))
	for _, res := range results {
		item := SearchResponse{
			ID:   res.ID,
			Name: res.Name,
			Type: string(res.Type),
		}
		if res.Type == region.MatchDistrict {
			item.AimagID = res.ProvinceID
		}
		out = append(out, item)
	}
	return out
}

func (s Shaper) boundary(kind string, id int64, raw []byte) geometry.Geometry {
	g, err := geometry.DecodeBoundary(raw)
	if err != nil {
		s.degraded("geometry", kind, id, err)
		return geometry.Geometry{}
	}
	return g
}

func (s Shaper) center(id int64, raw []byte) geometry.Geometry {
	g, err := geometry.DecodePoint(raw)
	if err != nil {
		s.degraded("center", "sum", id, err)
		return geometry.Geometry{}
	}
	return g
}

func (s Shaper) degraded(field, kind string, id int64, err error) {
	zap.L().Warn("api: omitting undecodable geometry",
		zap.String("field", field),
		zap.String("kind", kind),
		zap.Int64("id", id),
		zap.Error(err),
	)
	s.countDegraded(field)
}

func (s Shaper) countDegraded(field string) {
	if s.metrics != nil {
		s.metrics.GeometryErrors.WithLabelValues(field).Inc()
	}
}
