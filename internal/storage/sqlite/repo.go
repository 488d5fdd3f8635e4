// Package sqlite implements a SQLite-backed storage.Store using
// database/sql. Table replaces run inside a single transaction using batched
// multi-row INSERTs; SQLite does not have a dedicated bulk-load API like
// Postgres COPY, but transactions keep performance acceptable for moderate
// volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vendorperf/internal/ddl"
	"vendorperf/internal/storage"

	_ "modernc.org/sqlite"
)

// Repository is a SQLite-backed implementation of storage.Store.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// The pool is pinned to one connection: the store is single-writer, and an
// in-memory database only lives as long as its connection.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply a basic ping with context to fail fast on invalid DSNs.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// ReplaceTable drops, recreates and fills def.FQN in one transaction.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	d := Dialect{}
	create, err := ddl.BuildCreateTableSQL(d, def)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	cols := def.ColumnNames()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl.BuildDropTableSQL(d, def.FQN)); err != nil {
		return 0, fmt.Errorf("sqlite: drop %s: %w", def.FQN, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("sqlite: create %s: %w", def.FQN, err)
	}

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		stmt, err := ddl.BuildInsertSQL(d, def.FQN, columns, len(batch))
		if err != nil {
			return 0, err
		}
		args := make([]any, 0, len(batch)*len(columns))
		for _, row := range batch {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("sqlite: row length %d != columns length %d", len(row), len(columns))
			}
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		return int64(len(batch)), nil
	}

	n, err := storage.LoadBatches(ctx, def.FQN, cols, rows, r.batchSize(len(cols)), copyFn)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// Dialect returns the dialect the repository renders DDL with.
func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

// Query runs a read query and buffers the result.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	rs, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return rs, nil
}

func (r *Repository) batchSize(ncols int) int {
	n := r.cfg.BatchSize
	if n <= 0 {
		n = storage.DefaultBatchSize
	}
	if ncols > 0 && n*ncols > maxVars {
		n = maxVars / ncols
	}
	return n
}
