package services

import (
	"strings"

	"github.com/unidoc/unioffice/spreadsheet"
)

// xlsxExtractor renders every sheet of a workbook as a comma-delimited
// table and concatenates the renderings in sheet order.
type xlsxExtractor struct{}

func (xlsxExtractor) Extract(path string) (string, error) {
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	sheets := make([]string, 0, len(wb.Sheets()))
	for _, sheet := range wb.Sheets() {
		var rows []string
		for _, row := range sheet.Rows() {
			cells := row.Cells()
			values := make([]string, 0, len(cells))
			for _, cell := range cells {
				values = append(values, cell.GetFormattedValue())
			}
			rows = append(rows, strings.Join(values, ","))
		}
		sheets = append(sheets, strings.Join(rows, "\n"))
	}

	return strings.Join(sheets, "\n"), nil
}
