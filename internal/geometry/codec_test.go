package geometry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arkhangaiBoundary = `{"type":"MultiPolygon","coordinates":[[[[100.1,47.2],[103.5,47.2],[103.5,49.1],[100.1,49.1],[100.1,47.2]]]]}`

func TestDecode_PassThrough(t *testing.T) {
	g, err := Decode([]byte(arkhangaiBoundary))
	require.NoError(t, err)
	assert.Equal(t, TypeMultiPolygon, g.Type())

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, arkhangaiBoundary, string(out))
}

func TestDecode_RoundTripIsStructurallyEqual(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[105.123456789012,46.98765432101],[106.5,46.9],[106.4,47.8],[105.123456789012,46.98765432101]]]}`

	g, err := Decode([]byte(raw))
	require.NoError(t, err)

	out, err := json.Marshal(map[string]any{"geometry": g})
	require.NoError(t, err)

	var wrapped struct {
		Geometry json.RawMessage `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(out, &wrapped))
	assert.JSONEq(t, raw, string(wrapped.Geometry))

	again, err := Decode(wrapped.Geometry)
	require.NoError(t, err)
	assert.Equal(t, g.t.FlatCoords(), again.t.FlatCoords())
}

func TestDecode_KeepsEmptyGeometry(t *testing.T) {
	g, err := Decode([]byte(`{"type":"MultiPolygon","coordinates":[]}`))
	require.NoError(t, err)
	assert.Equal(t, TypeMultiPolygon, g.Type())

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"MultiPolygon","coordinates":[]}`, string(out))
}

func TestDecode_Null(t *testing.T) {
	for _, in := range []string{"", "   ", "null"} {
		_, err := Decode([]byte(in))
		require.Error(t, err, "input %q", in)

		var ge *GeometryError
		assert.True(t, errors.As(err, &ge))
		assert.Equal(t, "null geometry", ge.Reason)
	}
}

func TestDecode_Unparsable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type":`},
		{"unknown type", `{"type":"Circle","coordinates":[1,2]}`},
		{"feature", `{"type":"Feature","geometry":null,"properties":{}}`},
		{"bad coordinates", `{"type":"Polygon","coordinates":"abc"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			var ge *GeometryError
			require.True(t, errors.As(err, &ge))
			assert.Contains(t, err.Error(), "geometry:")
		})
	}
}

func TestDecodeBoundary_RejectsPoint(t *testing.T) {
	_, err := DecodeBoundary([]byte(`{"type":"Point","coordinates":[106.9,47.9]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got Point")
}

func TestDecodeBoundary_AcceptsPolygon(t *testing.T) {
	g, err := DecodeBoundary([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	require.NoError(t, err)
	assert.Equal(t, TypePolygon, g.Type())
}

func TestDecodePoint(t *testing.T) {
	g, err := DecodePoint([]byte(`{"type":"Point","coordinates":[101.4,47.9]}`))
	require.NoError(t, err)

	c, ok := g.Centroid()
	require.True(t, ok)
	assert.InDelta(t, 101.4, c.Longitude, 1e-9)
	assert.InDelta(t, 47.9, c.Latitude, 1e-9)

	_, err = DecodePoint([]byte(arkhangaiBoundary))
	require.Error(t, err)

	_, err = DecodePoint([]byte(`{"type":"Point","coordinates":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty point")
}

func TestBoundsContain(t *testing.T) {
	g, err := Decode([]byte(arkhangaiBoundary))
	require.NoError(t, err)

	assert.True(t, g.BoundsContain(Centroid{Longitude: 101.5, Latitude: 48.0}))
	assert.True(t, g.BoundsContain(Centroid{Longitude: 100.1, Latitude: 47.2}))
	assert.False(t, g.BoundsContain(Centroid{Longitude: 99.0, Latitude: 48.0}))
	assert.False(t, Geometry{}.BoundsContain(Centroid{}))
}

func TestZeroGeometryMarshalsNull(t *testing.T) {
	out, err := json.Marshal(struct {
		Geometry Geometry `json:"geometry"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"geometry":null}`, string(out))
	assert.Nil(t, Geometry{}.Bounds())
}
