package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// csvSheetName is what a CSV upload is labeled as, matching the sheet
// name a spreadsheet library assigns when importing one.
const csvSheetName = "Sheet1"

// Sheet reads the first worksheet of an Excel workbook and renders it
// as CSV text prefixed with the sheet name. Remaining sheets are
// ignored.
func Sheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	first := sheets[0]

	rows, err := f.GetRows(first)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", first, err)
	}
	return renderCSV(first, rows)
}

// CSV normalizes a CSV upload: parsed and re-emitted so the output
// shape matches the spreadsheet path exactly.
func CSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	return renderCSV(csvSheetName, rows)
}

func renderCSV(sheetName string, rows [][]string) (string, error) {
	var out strings.Builder
	out.WriteString("Sheet: " + sheetName + "\n")
	w := csv.NewWriter(&out)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	w.Flush()
	return out.String(), nil
}
