package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name        string
		path        func(t *testing.T) string
		ctx         context.Context
		wantErr     error
		wantContent string
	}{
		{
			name:        "reads file",
			path:        func(t *testing.T) string { return writeSource(t, "vendor_invoice.csv", "VendorNumber,Freight\n1,7.5\n") },
			ctx:         context.Background(),
			wantContent: "VendorNumber,Freight\n1,7.5\n",
		},
		{
			name:    "missing file keeps ErrNotExist",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "sales.csv") },
			ctx:     context.Background(),
			wantErr: os.ErrNotExist,
		},
		{
			name:    "canceled context skips the filesystem",
			path:    func(t *testing.T) string { return writeSource(t, "sales.csv", "x") },
			ctx:     canceled,
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := tt.path(t)
			rc, err := NewLocal(path).Open(tt.ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				if rc != nil {
					t.Fatalf("Open() returned a reader with error")
				}
				if errors.Is(err, os.ErrNotExist) && !strings.Contains(err.Error(), path) {
					t.Fatalf("error %q does not name %s", err, path)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != tt.wantContent {
				t.Fatalf("content = %q, want %q", got, tt.wantContent)
			}
		})
	}
}

// BenchmarkLocalOpen_Success opens and closes a small file.
func BenchmarkLocalOpen_Success(b *testing.B) {
	p := filepath.Join(b.TempDir(), "purchases.csv")
	if err := os.WriteFile(p, []byte("VendorNumber\n1\n"), 0o644); err != nil {
		b.Fatalf("write test file: %v", err)
	}

	src := NewLocal(p)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		if err := rc.Close(); err != nil {
			b.Fatal(err)
		}
	}
}

func TestLocalName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"data/purchases.csv":          "purchases",
		"/srv/in/purchase_prices.CSV": "purchase_prices",
		"vendor_invoice":              "vendor_invoice",
	}
	for path, want := range cases {
		l := NewLocal(path)
		if got := l.Name(); got != want {
			t.Errorf("NewLocal(%q).Name() = %q, want %q", path, got, want)
		}
		if l.Path() != path {
			t.Errorf("Path() = %q, want %q", l.Path(), path)
		}
	}
}
