package exporter

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

var (
	testColumns = []string{"VendorNumber", "VendorName", "GrossProfit", "ProfitMargin"}
	testRows    = [][]any{
		{int64(1), "Acme", 10.5, 17.5},
		{int64(2), nil, -12.0, math.Inf(-1)},
		{int64(3), "Gamma, Inc.", 0.0, math.NaN()},
	}
)

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/summary.csv", FormatCSV, false},
		{"out/summary.XLSX", FormatXLSX, false},
		{"out/summary.json", "", true},
		{"summary", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if (err != nil) != tt.wantErr {
			t.Fatalf("FormatFor(%q) err=%v, wantErr=%v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, testColumns, testRows); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	want := "VendorNumber,VendorName,GrossProfit,ProfitMargin\n" +
		"1,Acme,10.5,17.5\n" +
		"2,,-12,-Inf\n" +
		"3,\"Gamma, Inc.\",0,NaN\n"
	if got := buf.String(); got != want {
		t.Fatalf("WriteCSV output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSV_RowWidthMismatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"a", "b"}, [][]any{{"only one"}})
	if err == nil {
		t.Fatal("WriteCSV error = nil, want width mismatch")
	}
}

func TestCellText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{int64(-7), "-7"},
		{1234567.25, "1234567.25"},
		{math.Inf(1), "+Inf"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := cellText(tt.in); got != tt.want {
			t.Errorf("cellText(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExport_XLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := Export(path, "vendor_sales_summary", testColumns, testRows); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("vendor_sales_summary")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("rows = %d, want 4 (header + 3)", len(got))
	}
	if got[0][0] != "VendorNumber" || got[0][3] != "ProfitMargin" {
		t.Fatalf("header = %v", got[0])
	}
	if got[1][1] != "Acme" || got[1][2] != "10.5" {
		t.Fatalf("row 1 = %v", got[1])
	}
	if got[2][3] != "-Inf" || got[3][3] != "NaN" {
		t.Fatalf("non-finite cells = %q, %q; want -Inf, NaN", got[2][3], got[3][3])
	}
}

func TestExport_CSVFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := Export(path, "ignored", testColumns, testRows[:1]); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "VendorNumber,VendorName,GrossProfit,ProfitMargin\n1,Acme,10.5,17.5\n"
	if string(b) != want {
		t.Fatalf("file = %q, want %q", b, want)
	}
}

func TestExport_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.parquet")
	if err := Export(path, "", testColumns, testRows); err == nil {
		t.Fatal("Export error = nil, want unsupported extension")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("unexpected file created: %v", err)
	}
}

func TestWriteXLSX_LongSheetNameTruncated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "long.xlsx")
	name := "a_sheet_name_that_is_longer_than_excel_allows"
	if err := WriteXLSX(path, name, []string{"a"}, [][]any{{int64(1)}}); err != nil {
		t.Fatalf("WriteXLSX error: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetName(0); got != name[:maxSheetName] {
		t.Fatalf("sheet = %q, want %q", got, name[:maxSheetName])
	}
}
