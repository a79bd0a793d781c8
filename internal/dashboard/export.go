package dashboard

import (
	"io"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/store/csvfile"
	"github.com/agentstation/roster/pkg/store/xlsx"
)

// Export file names.
const (
	ExportCSVName  = "voluntariado_filtrado.csv"
	ExportXLSXName = "voluntariado_filtrado.xlsx"
)

// WriteCSV writes rows as CSV with the view schema.
func (v *View) WriteCSV(w io.Writer, rows []Row) error {
	return csvfile.Write(w, v.Dataset(rows), ',')
}

// WriteXLSX writes rows as a workbook with a single "Merged" sheet.
func (v *View) WriteXLSX(w io.Writer, rows []Row) error {
	return xlsx.Write(w, constants.DefaultSheetName, v.Dataset(rows))
}
