package summary

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vendorperf/internal/records"
	"vendorperf/internal/storage"
)

// table is a staged table with its required columns resolved to positions.
type table struct {
	rs  *storage.ResultSet
	idx []int
}

// readTable loads every row of the staging table for kind and resolves
// records.RequiredColumns[kind], in order. A missing column is a
// *records.MissingColumnError.
func readTable(ctx context.Context, st storage.Store, kind records.Kind) (*table, error) {
	cols := records.RequiredColumns[kind]
	rs, err := storage.ReadTable(ctx, st, string(kind))
	if err != nil {
		return nil, fmt.Errorf("summary: read %s: %w", kind, err)
	}
	t := &table{rs: rs, idx: make([]int, len(cols))}
	for i, c := range cols {
		j := rs.Index(c)
		if j < 0 {
			return nil, &records.MissingColumnError{Table: string(kind), Column: c}
		}
		t.idx[i] = j
	}
	return t, nil
}

func (t *table) scalar(row []any, col int) records.Scalar {
	return records.ScalarOf(row[t.idx[col]])
}

func (t *table) float(row []any, col int) records.NullFloat {
	return toNullFloat(row[t.idx[col]])
}

// toNullFloat reads a staged measure cell. Numeric text is accepted the way
// a SQL SUM would accept it; anything else is absent.
func toNullFloat(v any) records.NullFloat {
	switch x := records.ScalarOf(v).Value().(type) {
	case int64:
		return records.Float(float64(x))
	case float64:
		return records.Float(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return records.NullFloat{}
		}
		return records.Float(f)
	default:
		return records.NullFloat{}
	}
}

// ReadPurchases decodes the purchases staging table.
func ReadPurchases(ctx context.Context, st storage.Store) ([]records.PurchaseRecord, error) {
	t, err := readTable(ctx, st, records.KindPurchases)
	if err != nil {
		return nil, err
	}
	out := make([]records.PurchaseRecord, len(t.rs.Rows))
	for i, row := range t.rs.Rows {
		out[i] = records.PurchaseRecord{
			VendorNumber:  t.scalar(row, 0),
			VendorName:    t.scalar(row, 1),
			Brand:         t.scalar(row, 2),
			Description:   t.scalar(row, 3),
			PurchasePrice: t.float(row, 4),
			Quantity:      t.float(row, 5),
			Dollars:       t.float(row, 6),
		}
	}
	return out, nil
}

// ReadPrices decodes the purchase_prices staging table.
func ReadPrices(ctx context.Context, st storage.Store) ([]records.PriceRecord, error) {
	t, err := readTable(ctx, st, records.KindPrices)
	if err != nil {
		return nil, err
	}
	out := make([]records.PriceRecord, len(t.rs.Rows))
	for i, row := range t.rs.Rows {
		out[i] = records.PriceRecord{
			Brand:  t.scalar(row, 0),
			Price:  t.float(row, 1),
			Volume: t.scalar(row, 2),
		}
	}
	return out, nil
}

// ReadSales decodes the sales staging table.
func ReadSales(ctx context.Context, st storage.Store) ([]records.SaleRecord, error) {
	t, err := readTable(ctx, st, records.KindSales)
	if err != nil {
		return nil, err
	}
	out := make([]records.SaleRecord, len(t.rs.Rows))
	for i, row := range t.rs.Rows {
		out[i] = records.SaleRecord{
			VendorNo:      t.scalar(row, 0),
			Brand:         t.scalar(row, 1),
			Description:   t.scalar(row, 2),
			SalesDollars:  t.float(row, 3),
			SalesPrice:    t.float(row, 4),
			SalesQuantity: t.float(row, 5),
			ExciseTax:     t.float(row, 6),
		}
	}
	return out, nil
}

// ReadFreight decodes the vendor_invoice staging table.
func ReadFreight(ctx context.Context, st storage.Store) ([]records.FreightRecord, error) {
	t, err := readTable(ctx, st, records.KindFreight)
	if err != nil {
		return nil, err
	}
	out := make([]records.FreightRecord, len(t.rs.Rows))
	for i, row := range t.rs.Rows {
		out[i] = records.FreightRecord{
			VendorNumber: t.scalar(row, 0),
			Freight:      t.float(row, 1),
		}
	}
	return out, nil
}
