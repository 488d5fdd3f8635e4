// Package probe samples the raw files in a data directory and checks them
// against the columns the aggregation needs, without touching a store.
//
// Only the first MaxBytes of each file are read, cut back to the last full
// line, so probing a large extract is cheap. Column types are inferred from
// the sample with the same rules the loader uses.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vendorperf/internal/config"
	"vendorperf/internal/datasource/file"
	"vendorperf/internal/ddl"
	csvparser "vendorperf/internal/parser/csv"
	"vendorperf/internal/records"
)

// DefaultMaxBytes is the sample size used when Options.MaxBytes is not set.
const DefaultMaxBytes = 64 << 10

// Options control sampling.
type Options struct {
	// MaxBytes to sample from the start of each file.
	MaxBytes int
	// Parser is passed to the CSV parser for the sample.
	Parser csvparser.Options
}

// Report describes one sampled file.
type Report struct {
	// Kind is the file stem, i.e. the staging table name.
	Kind string
	Path string

	Headers    []string
	Types      []ddl.ColumnType
	SampleRows int

	// Missing lists required columns absent from the header. Only set for
	// the kinds the aggregation reads.
	Missing []string

	// Err is set when the sample could not be read or parsed.
	Err error
}

// peekFn reads up to n bytes from the start of src. Tests replace it.
var peekFn = func(ctx context.Context, src *file.Local, n int) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(rc, int64(n))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dir samples every CSV file in dir, in file-name order. A file that cannot
// be sampled is reported through Report.Err; the returned error covers only
// listing the directory.
func Dir(ctx context.Context, dir string, opt Options) ([]Report, error) {
	sources, err := file.List(dir, ".csv")
	if err != nil {
		return nil, err
	}
	out := make([]Report, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, File(ctx, src, opt))
	}
	return out, nil
}

// File samples one source.
func File(ctx context.Context, src *file.Local, opt Options) Report {
	rep := Report{Kind: src.Name(), Path: src.Path()}

	n := opt.MaxBytes
	if n <= 0 {
		n = DefaultMaxBytes
	}
	data, err := peekFn(ctx, src, n)
	if err != nil {
		rep.Err = err
		return rep
	}
	// Cut to the last newline so a partial trailing record is not parsed,
	// unless the whole file fit in the sample.
	if len(data) == n {
		if i := bytes.LastIndexByte(data, '\n'); i > 0 {
			data = data[:i+1]
		}
	}

	tbl, err := csvparser.Parse(ctx, bytes.NewReader(data), opt.Parser)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Headers = tbl.Columns
	rep.Types = tbl.Types
	rep.SampleRows = len(tbl.Rows)
	rep.Missing = missingColumns(records.Kind(rep.Kind), tbl.Columns)
	return rep
}

// missingColumns returns the required columns of kind absent from headers,
// compared case-insensitively like SQL identifiers.
func missingColumns(kind records.Kind, headers []string) []string {
	var missing []string
	for _, want := range records.RequiredColumns[kind] {
		found := false
		for _, h := range headers {
			if strings.EqualFold(h, want) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}

// Issues turns reports into config issues: a required kind with no file, a
// file that does not parse, or a required column that is absent is an
// error. dir is used for paths of missing files.
func Issues(dir string, reports []Report) []config.Issue {
	var out []config.Issue
	have := make(map[string]bool, len(reports))
	for _, r := range reports {
		have[r.Kind] = true
		path := "source.dir/" + filepath.Base(r.Path)
		if r.Err != nil {
			out = append(out, config.Issue{
				Severity: config.SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("cannot parse sample: %v", r.Err),
			})
			continue
		}
		if len(r.Missing) > 0 {
			out = append(out, config.Issue{
				Severity: config.SeverityError,
				Path:     path,
				Message:  "missing required columns: " + strings.Join(r.Missing, ", "),
			})
		}
	}
	for _, k := range records.Kinds {
		if !have[string(k)] {
			out = append(out, config.Issue{
				Severity: config.SeverityError,
				Path:     "source.dir",
				Message:  fmt.Sprintf("no %s.csv in %s", k, dir),
			})
		}
	}
	return out
}
