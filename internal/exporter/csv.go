package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes a header row and rows to w.
func WriteCSV(w io.Writer, columns []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("exporter: write csv header: %w", err)
	}
	rec := make([]string, len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("exporter: row %d: length %d != columns length %d", i, len(row), len(columns))
		}
		for j, v := range row {
			rec[j] = cellText(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("exporter: write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("exporter: flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile creates (or truncates) path and writes the CSV to it.
func WriteCSVFile(path string, columns []string, rows [][]any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("exporter: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("exporter: close %s: %w", path, cerr)
		}
	}()
	return WriteCSV(f, columns, rows)
}
