package gadm

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
)

// SRID of every GADM geometry (WGS 84).
const SRID = 4326

// EncodeMultiPolygon converts a shapefile polygon to EWKB MultiPolygon bytes
// with SRID 4326, the column type of the gadm tables. It returns nil, nil for
// nil, empty or non-polygon shapes.
func EncodeMultiPolygon(shape shp.Shape) ([]byte, error) {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil {
		return nil, nil
	}

	mp := toMultiPolygon(p)
	if mp == nil {
		return nil, nil
	}

	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "gadm: encode EWKB")
	}
	return data, nil
}

// toMultiPolygon groups shapefile rings into polygons. Shapefile outer rings
// wind clockwise and holes counter-clockwise; a hole belongs to the outer
// ring that precedes it.
func toMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRID)
	var current *geom.Polygon

	flush := func() {
		if current == nil {
			return
		}
		if err := mp.Push(current); err != nil {
			zap.L().Debug("gadm: skipping malformed polygon", zap.Error(err))
		}
		current = nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		ring := ringCoords(p, i)
		if len(ring) < 8 { // fewer than four points cannot close a ring
			continue
		}

		lr := geom.NewLinearRingFlat(geom.XY, ring)
		if current != nil && !clockwise(ring) {
			if err := current.Push(lr); err != nil {
				zap.L().Debug("gadm: skipping malformed hole", zap.Int32("part", i), zap.Error(err))
			}
			continue
		}

		flush()
		current = geom.NewPolygon(geom.XY)
		if err := current.Push(lr); err != nil {
			zap.L().Debug("gadm: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			current = nil
		}
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// ringCoords returns part i of p as flat XY coordinates.
func ringCoords(p *shp.Polygon, i int32) []float64 {
	start := p.Parts[i]
	end := int32(len(p.Points))
	if i+1 < p.NumParts {
		end = p.Parts[i+1]
	}
	if start < 0 || end > int32(len(p.Points)) || start >= end {
		return nil
	}

	flat := make([]float64, 0, (end-start)*2)
	for _, pt := range p.Points[start:end] {
		flat = append(flat, pt.X, pt.Y)
	}
	return flat
}

// clockwise reports whether a closed flat XY ring has negative signed area.
func clockwise(flat []float64) bool {
	var sum float64
	for i := 0; i+3 < len(flat); i += 2 {
		sum += flat[i]*flat[i+3] - flat[i+2]*flat[i+1]
	}
	return sum < 0
}
