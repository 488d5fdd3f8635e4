package etl

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vendorperf/internal/config"
	"vendorperf/internal/datasource/file"
	csvparser "vendorperf/internal/parser/csv"
	"vendorperf/internal/records"
	"vendorperf/internal/storage"
)

// Staged reports one raw file written to the staging store.
type Staged struct {
	Table string
	Path  string
	Rows  int64
}

// errNoSources is returned when the source directory holds no CSV files.
var errNoSources = errors.New("no .csv files")

// Function variables used as test seams.
var (
	listSourcesFn = file.List
	parseFn       = csvparser.Parse
)

// LoadRawData stages every CSV file in cfg.Source.Dir as a table named after
// the file stem, replacing any previous table of that name. Files are parsed
// by up to cfg.Runtime.LoaderWorkers goroutines; store writes are always
// serialized. Results are returned in file-name order.
//
// An unreadable or malformed file yields *records.SourceReadError and a
// failed write yields *records.StoreWriteError. Either aborts the load.
func LoadRawData(ctx context.Context, st storage.Store, cfg config.Pipeline) ([]Staged, error) {
	dir := cfg.Source.Dir
	sources, err := listSourcesFn(dir, ".csv")
	if err != nil {
		return nil, &records.SourceReadError{Path: dir, Err: err}
	}
	if len(sources) == 0 {
		return nil, &records.SourceReadError{Path: dir, Err: errNoSources}
	}
	warnMissingKinds(sources)

	workers := cfg.Runtime.LoaderWorkers
	if workers <= 0 {
		workers = 1
	}
	opt := csvparser.OptionsFrom(cfg.Parser.Options, cfg.Source.Encoding)

	out := make([]Staged, len(sources))
	var writeMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			tbl, err := parseSource(gctx, src, opt)
			if err != nil {
				return err
			}

			name := src.Name()
			writeMu.Lock()
			defer writeMu.Unlock()

			start := time.Now()
			n, err := st.ReplaceTable(gctx, tbl.Def(name), tbl.Rows)
			if err != nil {
				return &records.StoreWriteError{Table: name, Err: err}
			}
			log.Printf("loader: staged table=%s rows=%d columns=%d elapsed=%s",
				name, n, len(tbl.Columns), time.Since(start).Truncate(time.Millisecond))
			out[i] = Staged{Table: name, Path: src.Path(), Rows: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSource(ctx context.Context, src *file.Local, opt csvparser.Options) (*csvparser.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &records.SourceReadError{Path: src.Path(), Err: err}
	}
	defer rc.Close()

	tbl, err := parseFn(ctx, rc, opt)
	if err != nil {
		return nil, &records.SourceReadError{Path: src.Path(), Err: err}
	}
	return tbl, nil
}

// warnMissingKinds logs required kinds with no source file. The aggregation
// step reports the failure itself.
func warnMissingKinds(sources []*file.Local) {
	have := make(map[string]bool, len(sources))
	for _, s := range sources {
		have[s.Name()] = true
	}
	for _, k := range records.Kinds {
		if !have[string(k)] {
			log.Printf("loader: WARNING no source file for %s", k)
		}
	}
}

// totalRows sums staged row counts.
func totalRows(staged []Staged) int64 {
	var n int64
	for _, s := range staged {
		n += s.Rows
	}
	return n
}
