// Package csv parses one raw entity file into a typed staging table: header
// names, a logical type per column inferred from all of its values, and rows
// of nil, int64, float64 or string cells.
//
// Parsing is strict. A row whose width differs from the header, or any
// quoting error, fails the whole file; partial staging tables are never
// produced.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"vendorperf/internal/config"
	"vendorperf/internal/ddl"
)

// Options configures the CSV parser. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// Encoding names the source text encoding (utf-8, windows-1252,
	// iso-8859-1). Empty means UTF-8.
	Encoding string

	// HeaderMap renames source headers to canonical column names, e.g.
	// "Vendor No" -> "VendorNo".
	HeaderMap map[string]string
}

// OptionsFrom builds Options from the parser options bag and the source
// encoding.
func OptionsFrom(o config.Options, encoding string) Options {
	return Options{
		Comma:     o.Rune("comma", ','),
		TrimSpace: o.Bool("trim_space", false),
		Encoding:  encoding,
		HeaderMap: o.StringMap("header_map"),
	}
}

// Table is a parsed file: column names, inferred types and typed rows.
type Table struct {
	Columns []string
	Types   []ddl.ColumnType
	Rows    [][]any
}

// Def returns the staging table definition for t under name. Every column
// is nullable.
func (t *Table) Def(name string) ddl.TableDef {
	cols := make([]ddl.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = ddl.ColumnDef{Name: c, Type: t.Types[i], Nullable: true}
	}
	return ddl.TableDef{FQN: name, Columns: cols}
}

// ctxCheckEvery bounds how many rows are read between context checks.
const ctxCheckEvery = 4096

// Parse reads all of r as CSV with a header row.
func Parse(ctx context.Context, r io.Reader, opt Options) (*Table, error) {
	dr, err := decodeReader(r, opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.TrimLeadingSpace = opt.TrimSpace

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers, err := normalizeHeaders(h, opt)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = len(headers)
	cr.ReuseRecord = false

	var raw [][]string
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		raw = append(raw, row)
	}

	return typed(headers, raw), nil
}

// typed infers a type per column from every value and converts the cells.
func typed(headers []string, raw [][]string) *Table {
	t := &Table{
		Columns: headers,
		Types:   make([]ddl.ColumnType, len(headers)),
		Rows:    make([][]any, len(raw)),
	}
	col := make([]string, len(raw))
	for c := range headers {
		for r := range raw {
			col[r] = raw[r][c]
		}
		t.Types[c] = ddl.InferType(col)
	}
	for r, row := range raw {
		out := make([]any, len(row))
		for c, v := range row {
			out[c] = ddl.ParseCell(v, t.Types[c])
		}
		t.Rows[r] = out
	}
	return t
}

// normalizeHeaders strips the BOM, trims and maps header names, filling
// blanks with col_N. Duplicate names are an error since they cannot become
// columns of one table.
func normalizeHeaders(h []string, opt Options) ([]string, error) {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		}
		if c == "" {
			c = fmt.Sprintf("col_%d", i)
		}
		key := strings.ToLower(c)
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("csv header: column %q repeats column %d", c, j+1)
		}
		seen[key] = i
		res[i] = c
	}
	return res, nil
}
