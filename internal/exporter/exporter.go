// Package exporter writes a result table to a CSV or XLSX file for
// consumers that do not query the store directly.
package exporter

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("exporter: unsupported file extension %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// Export writes columns and rows to path in the format its extension
// selects. sheet names the worksheet for XLSX and is ignored for CSV.
func Export(path, sheet string, columns []string, rows [][]any) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	switch f {
	case FormatXLSX:
		return WriteXLSX(path, sheet, columns, rows)
	default:
		return WriteCSVFile(path, columns, rows)
	}
}

// formatFloat renders f without exponent for ordinary magnitudes. Non-finite
// values become "NaN", "+Inf" or "-Inf".
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cellText renders a normalized store cell as text. nil is empty.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}
