package gadm

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	attrs map[string]string
	parts [][]shp.Point
}

// writeShapefile writes a POLYGON shapefile with upper-case DBF fields.
func writeShapefile(t *testing.T, dir, name string, fields []string, records []testRecord) string {
	t.Helper()
	path := filepath.Join(dir, name)

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	shpFields := make([]shp.Field, len(fields))
	for i, f := range fields {
		shpFields[i] = shp.StringField(f, 64)
	}
	require.NoError(t, w.SetFields(shpFields))

	for _, rec := range records {
		n := w.Write(polygon(rec.parts))
		for i, f := range fields {
			require.NoError(t, w.WriteAttribute(int(n), i, rec.attrs[f]))
		}
	}
	w.Close()
	return path
}

func level1Fields() []string {
	return []string{"GID_0", "GID_1", "NAME_1", "TYPE_1", "ENGTYPE_1"}
}

func TestParseShapefile_Level1(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "gadm41_MNG_1.shp", level1Fields(), []testRecord{
		{
			attrs: map[string]string{"GID_0": "MNG", "GID_1": "MNG.1_1", "NAME_1": "Arhangay", "TYPE_1": "Aymag", "ENGTYPE_1": "Province"},
			parts: [][]shp.Point{square(100, 46, 3, true)},
		},
		{
			attrs: map[string]string{"GID_0": "MNG", "GID_1": "MNG.2_1", "NAME_1": "Bayan-\u00d6lgiy"},
			parts: [][]shp.Point{square(88, 48, 2, true)},
		},
	})

	rows, err := ParseShapefile(path, Layers[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cols := Layers[0].CopyColumns()
	for _, row := range rows {
		assert.Len(t, row, len(cols))
	}

	assert.Equal(t, int32(1), rows[0][0])
	assert.Equal(t, "MNG", rows[0][1])
	assert.Equal(t, "MNG.1_1", rows[0][2])
	assert.Equal(t, "Arhangay", rows[0][3])
	assert.Nil(t, rows[0][4], "varname_1 is absent from the DBF")
	assert.Equal(t, "Aymag", rows[0][6])
	assert.IsType(t, []byte{}, rows[0][len(cols)-1])

	assert.Equal(t, int32(2), rows[1][0])
	assert.Equal(t, "Bayan-\u00d6lgiy", rows[1][3])
	assert.Nil(t, rows[1][6], "empty type_1 becomes NULL")
}

func TestParseShapefile_SkipsUnnamedRecords(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "gadm41_MNG_1.shp", level1Fields(), []testRecord{
		{attrs: map[string]string{"GID_1": "MNG.1_1", "NAME_1": ""}, parts: [][]shp.Point{square(100, 46, 1, true)}},
		{attrs: map[string]string{"GID_1": "MNG.2_1", "NAME_1": "Bayanhongor"}, parts: [][]shp.Point{square(100, 44, 1, true)}},
	})

	rows, err := ParseShapefile(path, Layers[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1), rows[0][0], "gid is dense over kept rows")
	assert.Equal(t, "Bayanhongor", rows[0][3])
}

func TestParseShapefile_MissingRequiredField(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "gadm41_MNG_2.shp", level1Fields(), []testRecord{
		{attrs: map[string]string{"GID_1": "MNG.1_1", "NAME_1": "Arhangay"}, parts: [][]shp.Point{square(100, 46, 1, true)}},
	})

	_, err := ParseShapefile(path, Layers[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GID_2")
}

func TestParseShapefile_MissingFile(t *testing.T) {
	_, err := ParseShapefile(filepath.Join(t.TempDir(), "nope.shp"), Layers[0])
	assert.Error(t, err)
}

func TestCleanAttribute(t *testing.T) {
	assert.Equal(t, "\u00d6lgii", cleanAttribute("  O\u0308lgii\x00\x00"))
	assert.Equal(t, "", cleanAttribute("   "))
}
