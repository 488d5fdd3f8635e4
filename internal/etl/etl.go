// Package etl runs the vendor performance pipeline end to end: stage raw
// files, aggregate the staged tables, clean and enrich the result, and
// replace the output table. Each step is timed and reported through the
// metrics package; a failing step stops the run.
package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vendorperf/internal/config"
	"vendorperf/internal/exporter"
	"vendorperf/internal/metrics"
	"vendorperf/internal/records"
	"vendorperf/internal/storage"
	"vendorperf/internal/summary"
	"vendorperf/internal/transformer"
)

// Step names used in logs and metrics labels.
const (
	StepLoad      = "load"
	StepAggregate = "aggregate"
	StepClean     = "clean"
	StepWrite     = "write"
	StepVerify    = "verify"
	StepExport    = "export"
)

// Report summarizes a completed run.
type Report struct {
	RunID string
	Job   string

	// Staged lists the staging tables written, in file-name order.
	Staged []Staged

	// Table is the output table and Rows the number of rows written to it.
	Table string
	Rows  int64

	// Fingerprint is the xxh3 fingerprint of the output table as read back
	// from the store. Unchanged inputs give the same fingerprint.
	Fingerprint string

	// ExportPath is set when the summary was also exported to a file.
	ExportPath string

	Elapsed time.Duration
}

// newRunID is a test seam.
var newRunID = uuid.NewString

// Run executes Loader → Aggregator → Cleaner → Writer against st, then
// fingerprints the stored output and optionally exports it. cfg is expected
// to be defaulted and validated.
func Run(ctx context.Context, cfg config.Pipeline, st storage.Store) (*Report, error) {
	rep := &Report{
		RunID: newRunID(),
		Job:   cfg.Job,
		Table: cfg.Storage.DB.OutputTable,
	}
	if rep.Table == "" {
		rep.Table = records.DefaultSummaryTable
	}
	start := time.Now()
	log.Printf("run: id=%s job=%s dir=%s storage=%s table=%s",
		rep.RunID, rep.Job, cfg.Source.Dir, cfg.Storage.Kind, rep.Table)

	var (
		rows []summary.Row
		recs []records.VendorSummaryRecord
	)

	if err := rep.step(StepLoad, func() (err error) {
		rep.Staged, err = LoadRawData(ctx, st, cfg)
		return err
	}); err != nil {
		return nil, err
	}
	staged := totalRows(rep.Staged)
	metrics.RecordRow(rep.Job, "staged", staged)
	metrics.RecordBatches(rep.Job, stagedBatches(rep.Staged, cfg.Runtime.BatchSize))

	if err := rep.step(StepAggregate, func() (err error) {
		rows, err = summary.Build(ctx, st)
		return err
	}); err != nil {
		return nil, err
	}
	metrics.RecordRow(rep.Job, "aggregated", int64(len(rows)))

	if err := rep.step(StepClean, func() (err error) {
		recs, err = transformer.Clean(rows)
		return err
	}); err != nil {
		return nil, err
	}

	if err := rep.step(StepWrite, func() (err error) {
		rep.Rows, err = WriteSummary(ctx, st, rep.Table, recs)
		return err
	}); err != nil {
		return nil, err
	}
	metrics.RecordRow(rep.Job, "written", rep.Rows)
	metrics.RecordBatches(rep.Job, metrics.BatchCount(rep.Rows, batchSizeOf(cfg.Runtime.BatchSize)))

	if err := rep.step(StepVerify, func() (err error) {
		rep.Fingerprint, err = TableFingerprint(ctx, st, rep.Table)
		return err
	}); err != nil {
		return nil, err
	}

	if path := cfg.Export.Path; path != "" {
		if err := rep.step(StepExport, func() error {
			return exportRecords(path, rep.Table, recs)
		}); err != nil {
			return nil, err
		}
		rep.ExportPath = path
	}

	rep.Elapsed = time.Since(start)
	log.Printf("run: id=%s staged=%d staged_rows=%d output_rows=%d fingerprint=%s elapsed=%s",
		rep.RunID, len(rep.Staged), staged, rep.Rows, rep.Fingerprint, rep.Elapsed.Truncate(time.Millisecond))
	return rep, nil
}

// step runs fn and records its outcome under name.
func (r *Report) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(r.Job, name, err, d)
	if err != nil {
		log.Printf("run: id=%s step=%s failed after %s: %v", r.RunID, name, d.Truncate(time.Millisecond), err)
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// TableFingerprint reads table back from st and fingerprints it in stored
// order.
func TableFingerprint(ctx context.Context, st storage.Store, table string) (string, error) {
	rs, err := storage.ReadTable(ctx, st, table)
	if err != nil {
		return "", fmt.Errorf("read back %s: %w", table, err)
	}
	return summary.Fingerprint(rs.Columns, rs.Rows), nil
}

func exportRecords(path, table string, recs []records.VendorSummaryRecord) error {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Values()
	}
	if err := exporter.Export(path, table, records.SummaryColumns, rows); err != nil {
		return err
	}
	log.Printf("export: path=%s rows=%d", path, len(rows))
	return nil
}

func batchSizeOf(n int) int {
	if n <= 0 {
		return storage.DefaultBatchSize
	}
	return n
}

func stagedBatches(staged []Staged, batchSize int) int64 {
	var n int64
	for _, s := range staged {
		n += metrics.BatchCount(s.Rows, batchSizeOf(batchSize))
	}
	return n
}
