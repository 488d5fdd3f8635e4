// Package mysql implements a MySQL store on database/sql and
// go-sql-driver/mysql.
//
// MySQL commits DDL implicitly, so a replace cannot be one transaction.
// Instead rows land in a shadow table which is then swapped in with a single
// RENAME TABLE; readers never see a partially filled target.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"vendorperf/internal/ddl"
	"vendorperf/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN       string
	BatchSize int
}

// Repository is a MySQL-backed implementation of storage.Store.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, close, nil
}

// ReplaceTable fills <table>__new and swaps it in for def.FQN. On error the
// shadow table is dropped and the target is left as it was. DOUBLE columns
// reject Inf and NaN, so those cells are written as NULL.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	d := Dialect{}
	target := ddl.QuoteFQN(d, def.FQN)
	shadowDef := ddl.TableDef{FQN: def.FQN + "__new", Columns: def.Columns}
	shadow := ddl.QuoteFQN(d, shadowDef.FQN)
	old := ddl.QuoteFQN(d, def.FQN+"__old")

	create, err := ddl.BuildCreateTableSQL(d, shadowDef)
	if err != nil {
		return 0, fmt.Errorf("mysql: %w", err)
	}
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS " + shadow,
		"DROP TABLE IF EXISTS " + old,
		create,
	} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("mysql: prepare %s: %w", def.FQN, err)
		}
	}

	n, err := r.fill(ctx, shadowDef, rows)
	if err != nil {
		if _, derr := r.db.ExecContext(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+shadow); derr != nil {
			log.Printf("mysql: drop shadow %s failed: %v", shadowDef.FQN, derr)
		}
		return 0, err
	}

	// The placeholder target makes the two-way RENAME valid on first load.
	for _, stmt := range []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s LIKE %s", target, shadow),
		fmt.Sprintf("RENAME TABLE %s TO %s, %s TO %s", target, old, shadow, target),
		"DROP TABLE IF EXISTS " + old,
	} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("mysql: swap %s: %w", def.FQN, err)
		}
	}
	return n, nil
}

// fill inserts rows into def.FQN inside one transaction.
func (r *Repository) fill(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	d := Dialect{}
	cols := def.ColumnNames()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		stmt, err := ddl.BuildInsertSQL(d, def.FQN, columns, len(batch))
		if err != nil {
			return 0, err
		}
		args := make([]any, 0, len(batch)*len(columns))
		for _, row := range storage.FiniteOrNil(batch) {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("mysql: row length %d != columns length %d", len(row), len(columns))
			}
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, fmt.Errorf("mysql: insert: %w", err)
		}
		return int64(len(batch)), nil
	}

	n, err := storage.LoadBatches(ctx, def.FQN, cols, rows, r.batchSize(len(cols)), copyFn)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return n, nil
}

// Dialect returns the dialect the repository renders DDL with.
func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

// Query runs a read query and buffers the result. Text-protocol cells that
// arrive as raw bytes are converted according to the column's declared type.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql: query: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("mysql: column types: %w", err)
	}
	rs, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	for _, row := range rs.Rows {
		for i, v := range row {
			if s, ok := v.(string); ok && i < len(types) {
				row[i] = fromText(s, types[i].DatabaseTypeName())
			}
		}
	}
	return rs, nil
}

// fromText parses s when dbType is numeric; otherwise s is returned as is.
func fromText(s, dbType string) any {
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "FLOAT", "DOUBLE", "DECIMAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func (r *Repository) batchSize(ncols int) int {
	n := r.cfg.BatchSize
	if n <= 0 {
		n = storage.DefaultBatchSize
	}
	if ncols > 0 && n*ncols > maxPlaceholders {
		n = maxPlaceholders / ncols
	}
	return n
}
