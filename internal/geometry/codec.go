// Package geometry converts between the store's GeoJSON text and go-geom
// values, and defines the canonical wire shape of every spatial field.
package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSON geometry type names.
const (
	TypePoint        = "Point"
	TypePolygon      = "Polygon"
	TypeMultiPolygon = "MultiPolygon"
)

// Geometry is a decoded GeoJSON geometry. It marshals back to exactly the text
// it was decoded from, so values read from the store reach the client
// byte-for-byte.
type Geometry struct {
	raw json.RawMessage
	t   geom.T
}

// Centroid is a longitude/latitude pair.
type Centroid struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// GeometryError reports a null or unparsable spatial value.
type GeometryError struct {
	Reason string
	Err    error
}

func (e *GeometryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geometry: %s: %v", e.Reason, e.Err)
	}
	return "geometry: " + e.Reason
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

// Decode parses GeoJSON geometry text as produced by ST_AsGeoJSON.
func Decode(raw []byte) (Geometry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Geometry{}, &GeometryError{Reason: "null geometry"}
	}

	var t geom.T
	if err := geojson.Unmarshal(trimmed, &t); err != nil {
		return Geometry{}, &GeometryError{Reason: "unparsable geometry", Err: err}
	}
	if t == nil {
		return Geometry{}, &GeometryError{Reason: "null geometry"}
	}

	return Geometry{raw: append(json.RawMessage(nil), trimmed...), t: t}, nil
}

// DecodeBoundary is Decode restricted to Polygon and MultiPolygon.
func DecodeBoundary(raw []byte) (Geometry, error) {
	g, err := Decode(raw)
	if err != nil {
		return Geometry{}, err
	}
	switch g.t.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return g, nil
	default:
		return Geometry{}, &GeometryError{Reason: fmt.Sprintf("boundary must be Polygon or MultiPolygon, got %s", g.Type())}
	}
}

// DecodePoint is Decode restricted to non-empty points.
func DecodePoint(raw []byte) (Geometry, error) {
	g, err := Decode(raw)
	if err != nil {
		return Geometry{}, err
	}
	p, ok := g.t.(*geom.Point)
	if !ok {
		return Geometry{}, &GeometryError{Reason: fmt.Sprintf("center must be Point, got %s", g.Type())}
	}
	if p.Empty() {
		return Geometry{}, &GeometryError{Reason: "empty point"}
	}
	return g, nil
}

// Type returns the GeoJSON type name.
func (g Geometry) Type() string {
	switch g.t.(type) {
	case *geom.Point:
		return TypePoint
	case *geom.LineString:
		return "LineString"
	case *geom.Polygon:
		return TypePolygon
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.MultiPolygon:
		return TypeMultiPolygon
	case *geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return ""
	}
}

// Centroid returns the coordinates of a point geometry.
func (g Geometry) Centroid() (Centroid, bool) {
	p, ok := g.t.(*geom.Point)
	if !ok || p.Empty() {
		return Centroid{}, false
	}
	return Centroid{Longitude: p.X(), Latitude: p.Y()}, true
}

// Bounds returns the bounding box of g, or nil for a zero Geometry.
func (g Geometry) Bounds() *geom.Bounds {
	if g.t == nil {
		return nil
	}
	return g.t.Bounds()
}

// BoundsContain reports whether c lies inside the bounding box of g.
func (g Geometry) BoundsContain(c Centroid) bool {
	b := g.Bounds()
	if b == nil || b.IsEmpty() {
		return false
	}
	return b.OverlapsPoint(geom.XY, geom.Coord{c.Longitude, c.Latitude})
}

// MarshalJSON writes the geometry text unchanged. A zero Geometry is null.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if len(g.raw) == 0 {
		return []byte("null"), nil
	}
	return g.raw, nil
}
