package gadm

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ParseShapefile reads one GADM layer and returns COPY rows matching
// layer.CopyColumns. gid is assigned 1..n in record order. Records without an
// id, a name or a usable polygon are skipped.
func ParseShapefile(shpPath string, layer Layer) ([][]any, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "gadm: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	for _, required := range []string{layer.IDField, layer.Name} {
		if _, ok := fieldIdx[required]; !ok {
			return nil, eris.Errorf("gadm: %s lacks field %s", shpPath, strings.ToUpper(required))
		}
	}

	var (
		rows    [][]any
		skipped int
	)
	for reader.Next() {
		_, shape := reader.Shape()

		attrs := make(map[string]string, len(layer.Columns))
		for _, col := range layer.Columns {
			if idx, ok := fieldIdx[col]; ok {
				attrs[col] = cleanAttribute(reader.Attribute(idx))
			}
		}
		if attrs[layer.IDField] == "" || attrs[layer.Name] == "" {
			skipped++
			continue
		}

		wkb, err := EncodeMultiPolygon(shape)
		if err != nil || wkb == nil {
			skipped++
			continue
		}

		row := make([]any, 0, len(layer.Columns)+2)
		row = append(row, int32(len(rows)+1))
		for _, col := range layer.Columns {
			if v := attrs[col]; v != "" {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, append(row, wkb))
	}

	if skipped > 0 {
		zap.L().Warn("gadm: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("level", layer.Level),
			zap.Int("skipped", skipped),
		)
	}
	return rows, nil
}

// cleanAttribute trims DBF padding and composes the text to NFC so stored
// names compare equal to NFC-normalized search terms.
func cleanAttribute(v string) string {
	v = strings.TrimSpace(strings.TrimRight(v, "\x00"))
	return norm.NFC.String(v)
}
