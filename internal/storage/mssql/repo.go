// Package mssql implements a Microsoft SQL Server store using the
// go-mssqldb bulk copy API. A table replace is DROP + CREATE + bulk copy in
// one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"vendorperf/internal/ddl"
	"vendorperf/internal/storage"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN       string
	BatchSize int
}

// Repository is an MSSQL-backed implementation of storage.Store.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, close, nil
}

// ReplaceTable drops, recreates and bulk-copies def.FQN in one transaction.
// FLOAT columns reject Inf and NaN, so those cells are written as NULL.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	d := Dialect{}
	create, err := ddl.BuildCreateTableSQL(d, def)
	if err != nil {
		return 0, fmt.Errorf("mssql: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, ddl.BuildDropTableSQL(d, def.FQN)); err != nil {
		return 0, fmt.Errorf("mssql: drop %s: %w", def.FQN, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("mssql: create %s: %w", def.FQN, err)
	}

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		return bulkCopy(ctx, tx, msFQN(def.FQN), columns, storage.FiniteOrNil(batch))
	}

	batchSize := r.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	n, err := storage.LoadBatches(ctx, def.FQN, def.ColumnNames(), rows, batchSize, copyFn)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// bulkCopy streams one batch through a CopyIn statement; the final
// argument-less Exec flushes it.
func bulkCopy(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, columns...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if len(rows[i]) != len(columns) {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: length %d != columns length %d", i, len(rows[i]), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Dialect returns the dialect the repository renders DDL with.
func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

// Query runs a read query and buffers the result.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mssql: query: %w", err)
	}
	rs, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mssql: %w", err)
	}
	return rs, nil
}
