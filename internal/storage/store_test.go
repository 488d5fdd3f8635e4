package storage

import (
	"context"
	"testing"
	"time"

	"vendorperf/internal/ddl"
)

// fakeStore is a minimal Store implementation for tests.
type fakeStore struct {
	closed  bool
	queries []string
}

// quoteDialect quotes identifiers with double quotes.
type quoteDialect struct{}

func (quoteDialect) QuoteIdent(id string) string     { return `"` + id + `"` }
func (quoteDialect) MapType(t ddl.ColumnType) string { return string(t) }
func (quoteDialect) Placeholder(int) string          { return "?" }

func (f *fakeStore) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}

func (f *fakeStore) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	f.queries = append(f.queries, query)
	return &ResultSet{}, nil
}

func (f *fakeStore) Dialect() ddl.Dialect { return quoteDialect{} }

func (f *fakeStore) Close() { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding store.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		return &fakeStore{}, nil
	})

	st, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if st == nil {
		t.Fatalf("New returned nil store")
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage.kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind replaces the
// previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	var first, second int
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		first++
		return &fakeStore{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		second++
		return &fakeStore{}, nil
	})

	if _, err := New(context.Background(), Config{Kind: kind}); err != nil {
		t.Fatalf("New error: %v", err)
	}
	if first != 0 || second != 1 {
		t.Fatalf("factory calls first=%d second=%d, want 0 and 1", first, second)
	}
}

func TestReadTable_QuotesName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fqn  string
		want string
	}{
		{"VendorSales", `SELECT * FROM "VendorSales"`},
		{"reports.VendorSales", `SELECT * FROM "reports"."VendorSales"`},
	}
	for _, tt := range tests {
		st := &fakeStore{}
		if _, err := ReadTable(context.Background(), st, tt.fqn); err != nil {
			t.Fatalf("ReadTable(%q): %v", tt.fqn, err)
		}
		if len(st.queries) != 1 || st.queries[0] != tt.want {
			t.Errorf("ReadTable(%q) queries = %q, want [%q]", tt.fqn, st.queries, tt.want)
		}
	}
}

func TestResultSetIndex(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{Columns: []string{"VendorNumber", "Brand"}}
	if got := rs.Index("vendornumber"); got != 0 {
		t.Fatalf("Index(vendornumber) = %d, want 0", got)
	}
	if got := rs.Index("BRAND"); got != 1 {
		t.Fatalf("Index(BRAND) = %d, want 1", got)
	}
	if got := rs.Index("Freight"); got != -1 {
		t.Fatalf("Index(Freight) = %d, want -1", got)
	}
}

func TestNormalizeCell(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   any
		want any
	}{
		{in: nil, want: nil},
		{in: []byte("Acme"), want: "Acme"},
		{in: int32(7), want: int64(7)},
		{in: float32(1.5), want: 1.5},
		{in: true, want: int64(1)},
		{in: ts, want: "2024-01-02T03:04:05Z"},
		{in: int64(9), want: int64(9)},
	}
	for _, tt := range tests {
		if got := NormalizeCell(tt.in); got != tt.want {
			t.Errorf("NormalizeCell(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
