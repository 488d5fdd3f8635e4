// Package storage contains the storage-agnostic contracts the pipeline uses
// to stage raw tables and persist the summary: a Store interface, a
// registry of backend factories keyed by storage kind, and a batched loader
// that backends use inside their replace transaction.
//
// Concrete backends (sqlite, postgres, mssql, mysql) live in subpackages and
// register themselves in init; import vendorperf/internal/storage/all to get all of
// them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"vendorperf/internal/ddl"
)

// Store is a tabular store that can replace whole tables and answer read
// queries. Access is not safe for concurrent use; callers serialize.
type Store interface {
	// ReplaceTable drops def.FQN if present, recreates it from def and
	// inserts rows (aligned to def.Columns). Backends make the replace atomic:
	// on error the previous table, if any, is left as it was.
	ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error)

	// Query runs a read query and buffers the full result.
	Query(ctx context.Context, query string, args ...any) (*ResultSet, error)

	// Dialect is the SQL dialect ReplaceTable renders table and column
	// names with.
	Dialect() ddl.Dialect

	// Close releases the underlying connection(s).
	Close()
}

// ReadTable selects every row of fqn, quoting the name the way
// ReplaceTable created it.
func ReadTable(ctx context.Context, st Store, fqn string) (*ResultSet, error) {
	return st.Query(ctx, "SELECT * FROM "+ddl.QuoteFQN(st.Dialect(), fqn))
}

// ResultSet is a fully buffered query result. Cell values are normalized to
// nil, int64, float64 or string where the driver allows.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Index returns the position of column name (case-insensitive, as SQL
// identifiers are), or -1.
func (rs *ResultSet) Index(name string) int {
	for i, c := range rs.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend: "sqlite", "postgres", "mssql" or "mysql".
	Kind string
	// DSN is passed to the backend driver.
	DSN string
	// BatchSize caps the rows per INSERT/COPY batch during ReplaceTable.
	BatchSize int
}

// Factory opens a Store for cfg.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Store using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
