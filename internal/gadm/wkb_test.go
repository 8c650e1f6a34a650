package gadm

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// square returns a closed ring around (x,y); clockwise for outer rings.
func square(x, y, size float64, cw bool) []shp.Point {
	if cw {
		return []shp.Point{{X: x, Y: y}, {X: x, Y: y + size}, {X: x + size, Y: y + size}, {X: x + size, Y: y}, {X: x, Y: y}}
	}
	return []shp.Point{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}, {X: x, Y: y}}
}

// polygon builds a shapefile polygon from rings, one part per ring.
func polygon(rings [][]shp.Point) *shp.Polygon {
	p := &shp.Polygon{NumParts: int32(len(rings)), Parts: make([]int32, len(rings))}
	for i, ring := range rings {
		p.Parts[i] = int32(len(p.Points))
		p.Points = append(p.Points, ring...)
	}
	p.NumPoints = int32(len(p.Points))
	p.Box = shp.BBoxFromPoints(p.Points)
	return p
}

func decodeMultiPolygon(t *testing.T, data []byte) *geom.MultiPolygon {
	t.Helper()
	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "want MultiPolygon, got %T", g)
	return mp
}

func TestEncodeMultiPolygon_SingleRing(t *testing.T) {
	data, err := EncodeMultiPolygon(polygon([][]shp.Point{square(100, 46, 1, true)}))
	require.NoError(t, err)

	mp := decodeMultiPolygon(t, data)
	assert.Equal(t, SRID, mp.SRID())
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 1, mp.Polygon(0).NumLinearRings())
}

func TestEncodeMultiPolygon_HoleJoinsOuterRing(t *testing.T) {
	data, err := EncodeMultiPolygon(polygon([][]shp.Point{
		square(100, 46, 4, true),
		square(101, 47, 1, false),
	}))
	require.NoError(t, err)

	mp := decodeMultiPolygon(t, data)
	require.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
}

func TestEncodeMultiPolygon_SeparateIslands(t *testing.T) {
	data, err := EncodeMultiPolygon(polygon([][]shp.Point{
		square(100, 46, 1, true),
		square(110, 46, 1, true),
	}))
	require.NoError(t, err)

	mp := decodeMultiPolygon(t, data)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestEncodeMultiPolygon_LeadingCounterClockwiseIsOuter(t *testing.T) {
	data, err := EncodeMultiPolygon(polygon([][]shp.Point{square(100, 46, 1, false)}))
	require.NoError(t, err)

	mp := decodeMultiPolygon(t, data)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestEncodeMultiPolygon_Unsupported(t *testing.T) {
	for name, shape := range map[string]shp.Shape{
		"nil":   nil,
		"point": &shp.Point{X: 1, Y: 2},
		"empty": &shp.Polygon{},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := EncodeMultiPolygon(shape)
			require.NoError(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestEncodeMultiPolygon_DegenerateRingSkipped(t *testing.T) {
	data, err := EncodeMultiPolygon(polygon([][]shp.Point{
		{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}},
	}))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClockwise(t *testing.T) {
	flat := func(pts []shp.Point) []float64 {
		out := make([]float64, 0, len(pts)*2)
		for _, p := range pts {
			out = append(out, p.X, p.Y)
		}
		return out
	}
	assert.True(t, clockwise(flat(square(0, 0, 1, true))))
	assert.False(t, clockwise(flat(square(0, 0, 1, false))))
}
