package exporter

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is Excel's worksheet name limit.
const maxSheetName = 31

// WriteXLSX writes a workbook with a single worksheet named sheet holding a
// header row and rows. Rows go through excelize's stream writer so large
// tables are not held twice in memory.
func WriteXLSX(path, sheet string, columns []string, rows [][]any) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("exporter: sheet name %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("exporter: stream writer: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("exporter: write header: %w", err)
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("exporter: row %d: length %d != columns length %d", i, len(row), len(columns))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("exporter: row %d: %w", i, err)
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = xlsxValue(v)
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("exporter: write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("exporter: flush: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("exporter: save %s: %w", path, err)
	}
	return nil
}

// xlsxValue keeps numbers numeric. Spreadsheet cells cannot hold NaN or
// ±Inf, so those are written as text.
func xlsxValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return formatFloat(f)
	}
	return v
}
