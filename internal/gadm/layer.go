// Package gadm loads GADM 4.1 administrative boundaries into PostGIS: schema
// migrations, archive download, shapefile parsing and COPY loading.
package gadm

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is where GADM 4.1 publishes per-country shapefile archives.
const DefaultBaseURL = "https://geodata.ucdavis.edu/gadm/gadm4.1/shp"

// Layer is one administrative level of a GADM country archive.
type Layer struct {
	Level   int
	Columns []string // DBF attributes copied verbatim, lowercased
	IDField string   // GID_n; records without it are skipped
	Name    string   // NAME_n; records without it are skipped
}

// Layers are the two levels the API serves: provinces (aimags) and
// districts (sums).
var Layers = []Layer{
	{
		Level:   1,
		Columns: []string{"gid_0", "gid_1", "name_1", "varname_1", "nl_name_1", "type_1", "engtype_1", "hasc_1"},
		IDField: "gid_1",
		Name:    "name_1",
	},
	{
		Level:   2,
		Columns: []string{"gid_0", "gid_1", "name_1", "gid_2", "name_2", "varname_2", "nl_name_2", "type_2", "engtype_2", "hasc_2"},
		IDField: "gid_2",
		Name:    "name_2",
	},
}

// Table returns the PostGIS table for the layer, e.g. gadm41_mng_1.
func (l Layer) Table(country string) string {
	return fmt.Sprintf("gadm41_%s_%d", strings.ToLower(country), l.Level)
}

// Shapefile returns the .shp name inside the archive, e.g. gadm41_MNG_1.shp.
func (l Layer) Shapefile(country string) string {
	return fmt.Sprintf("gadm41_%s_%d.shp", strings.ToUpper(country), l.Level)
}

// CopyColumns is the COPY column list: gid, the attributes, then geom.
func (l Layer) CopyColumns() []string {
	cols := make([]string, 0, len(l.Columns)+2)
	cols = append(cols, "gid")
	cols = append(cols, l.Columns...)
	return append(cols, "geom")
}

// ArchiveURL returns the download URL of a country's shapefile archive.
func ArchiveURL(baseURL, country string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + ArchiveName(country)
}

// ArchiveName returns the archive file name, e.g. gadm41_MNG_shp.zip.
func ArchiveName(country string) string {
	return fmt.Sprintf("gadm41_%s_shp.zip", strings.ToUpper(country))
}
