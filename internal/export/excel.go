// Package export serializes report rows into xlsx workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

// Workbook builds a single-sheet xlsx file from an ordered header row and
// ordered data rows and returns the serialized bytes, ready to be sent as a
// chat document or streamed over HTTP.
func Workbook(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for idx, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, idx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for i := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, 18); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename embeds the report scope and generation date, e.g.
// attendance_week_2026-08-29.xlsx.
func Filename(scope, day string) string {
	return fmt.Sprintf("attendance_%s_%s.xlsx", scope, day)
}
