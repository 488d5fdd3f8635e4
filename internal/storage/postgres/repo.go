// Package postgres implements a Postgres store using pgx v5. Table replaces
// run DROP + CREATE + COPY inside one transaction, so readers see either the
// old table or the complete new one.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendorperf/internal/ddl"
	"vendorperf/internal/storage"
)

// Config holds Postgres store configuration.
type Config struct {
	DSN       string // connection string for pgxpool
	BatchSize int    // rows per COPY batch
}

// Repository is a Postgres-backed implementation of storage.Store.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, close, nil
}

// ReplaceTable drops, recreates and COPYs def.FQN in one transaction.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	d := Dialect{}
	create, err := ddl.BuildCreateTableSQL(d, def)
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, ddl.BuildDropTableSQL(d, def.FQN)); err != nil {
		return 0, fmt.Errorf("postgres: drop %s: %w", def.FQN, err)
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("postgres: create %s: %w", def.FQN, err)
	}

	ident := pgx.Identifier(identifier(def.FQN))
	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		for _, row := range batch {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("postgres: row length %d != columns length %d", len(row), len(columns))
			}
		}
		n, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(batch))
		if err != nil {
			return n, fmt.Errorf("postgres: copy into %s: %w", def.FQN, err)
		}
		return n, nil
	}

	batchSize := r.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	n, err := storage.LoadBatches(ctx, def.FQN, def.ColumnNames(), rows, batchSize, copyFn)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// Dialect returns the dialect the repository renders DDL with.
func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

// Query runs a read query and buffers the result.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (*storage.ResultSet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	rs := &storage.ResultSet{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		rs.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: values: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return rs, nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return pgtype.UUID{Bytes: x, Valid: true}.String()
	}
	return storage.NormalizeCell(v)
}
