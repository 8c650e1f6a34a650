// Package export writes dataset listings to spreadsheet files.
package export

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/boundary-api/internal/region"
)

// CentersSheet is the sheet name used by WriteCenters.
const CentersSheet = "Sum centers"

// CentersHeader is the header row, matching the JSON field names of the
// centers endpoint.
var CentersHeader = []string{"sum_name", "longitude", "latitude"}

// ProvinceCenters loads the district centers of one province and writes them
// to an XLSX file at path. It returns the number of data rows written.
func ProvinceCenters(ctx context.Context, repo region.Repository, provinceID int64, path string) (int, error) {
	centers, err := repo.ListDistrictCenters(ctx, provinceID)
	if err != nil {
		return 0, err
	}
	if err := WriteCenters(path, centers); err != nil {
		return 0, err
	}
	return len(centers), nil
}

// WriteCenters writes a header row plus one row per center. A center without
// coordinates gets empty coordinate cells.
func WriteCenters(path string, centers []region.DistrictCenter) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(CentersSheet)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range CentersHeader {
		header.AddCell().SetString(h)
	}

	for _, c := range centers {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Name)
		if !c.HasCoordinates() {
			row.AddCell()
			row.AddCell()
			continue
		}
		row.AddCell().SetFloat(c.Longitude.Decimal.InexactFloat64())
		row.AddCell().SetFloat(c.Latitude.Decimal.InexactFloat64())
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
