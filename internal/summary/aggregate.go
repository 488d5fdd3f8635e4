// Package summary builds the per-vendor, per-brand summary from the staged
// entity tables. The three grouped aggregates are computed with hash maps
// keyed by the grouping tuple and merged with explicit left outer joins, so
// the result does not depend on the SQL dialect of the store.
//
// Sums follow SQL semantics: absent inputs are skipped and a group whose
// inputs are all absent has an absent sum. NULL keys group together but
// never satisfy a join. Join columns compare the way SQLite compares them:
// text against text is exact, and text is read as a number when the other
// column is numeric.
package summary

import (
	"context"
	"log"
	"sort"
	"strings"

	"vendorperf/internal/records"
	"vendorperf/internal/storage"
)

// FreightRow is freight cost summed per vendor.
type FreightRow struct {
	VendorNumber records.Scalar
	FreightCost  records.NullFloat
}

// PurchaseRow is one purchases-by-brand group, joined with its price.
type PurchaseRow struct {
	VendorNumber          records.Scalar
	VendorName            records.Scalar
	Brand                 records.Scalar
	Description           records.Scalar
	PurchasePrice         records.NullFloat
	ActualPrice           records.NullFloat
	Volume                records.Scalar
	TotalPurchaseQuantity records.NullFloat
	TotalPurchaseDollars  records.NullFloat
}

// SalesRow is sales summed per (VendorNo, Brand). Description is taken from
// the first row of the group.
type SalesRow struct {
	VendorNo           records.Scalar
	Brand              records.Scalar
	Description        records.Scalar
	TotalSalesDollars  records.NullFloat
	TotalSalesPrice    records.NullFloat
	TotalSalesQuantity records.NullFloat
	TotalExciseTax     records.NullFloat
}

// Row is a purchase group with its matching sales and freight, which stay
// absent when nothing matched.
type Row struct {
	PurchaseRow
	TotalSalesDollars  records.NullFloat
	TotalSalesPrice    records.NullFloat
	TotalSalesQuantity records.NullFloat
	TotalExciseTax     records.NullFloat
	FreightCost        records.NullFloat
}

// groupKey joins the keys of a grouping tuple.
func groupKey(keys ...string) string { return strings.Join(keys, "\x1f") }

// joinable reports whether every key part is non-NULL.
func joinable(parts ...records.Scalar) bool {
	for _, p := range parts {
		if p.IsNull() {
			return false
		}
	}
	return true
}

// keyFn returns the comparison key for a join column. numeric is set when
// either side of the join holds numbers.
func keyFn(numeric bool) func(records.Scalar) string {
	if numeric {
		return records.Scalar.NumericKey
	}
	return records.Scalar.Key
}

// anyNumber reports whether col holds a number in any of rows.
func anyNumber[T any](rows []T, col func(T) records.Scalar) bool {
	for _, r := range rows {
		if col(r).IsNumber() {
			return true
		}
	}
	return false
}

// FreightSummary sums Freight per VendorNumber. Groups are returned in order
// of first appearance.
func FreightSummary(in []records.FreightRecord) []FreightRow {
	pos := make(map[string]int)
	var out []FreightRow
	for _, r := range in {
		k := r.VendorNumber.Key()
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, FreightRow{VendorNumber: r.VendorNumber})
		}
		out[i].FreightCost = out[i].FreightCost.Add(r.Freight)
	}
	return out
}

// PurchasesSummary inner-joins purchases to prices on Brand, keeps rows with
// PurchasePrice > 0 and sums Quantity and Dollars per (VendorNumber,
// VendorName, Brand, Description, PurchasePrice, ActualPrice, Volume). A
// brand with several price rows yields one joined row per price row.
func PurchasesSummary(purchases []records.PurchaseRecord, prices []records.PriceRecord) []PurchaseRow {
	brandKey := keyFn(
		anyNumber(purchases, func(p records.PurchaseRecord) records.Scalar { return p.Brand }) ||
			anyNumber(prices, func(p records.PriceRecord) records.Scalar { return p.Brand }))

	byBrand := make(map[string][]records.PriceRecord)
	for _, pr := range prices {
		if pr.Brand.IsNull() {
			continue
		}
		k := brandKey(pr.Brand)
		byBrand[k] = append(byBrand[k], pr)
	}

	pos := make(map[string]int)
	var out []PurchaseRow
	for _, p := range purchases {
		if !p.PurchasePrice.Valid || p.PurchasePrice.Float <= 0 || p.Brand.IsNull() {
			continue
		}
		for _, pr := range byBrand[brandKey(p.Brand)] {
			k := groupKey(
				p.VendorNumber.Key(), p.VendorName.Key(), p.Brand.Key(), p.Description.Key(),
				p.PurchasePrice.Key(), pr.Price.Key(), pr.Volume.Key(),
			)
			i, ok := pos[k]
			if !ok {
				i = len(out)
				pos[k] = i
				out = append(out, PurchaseRow{
					VendorNumber:  p.VendorNumber,
					VendorName:    p.VendorName,
					Brand:         p.Brand,
					Description:   p.Description,
					PurchasePrice: p.PurchasePrice,
					ActualPrice:   pr.Price,
					Volume:        pr.Volume,
				})
			}
			out[i].TotalPurchaseQuantity = out[i].TotalPurchaseQuantity.Add(p.Quantity)
			out[i].TotalPurchaseDollars = out[i].TotalPurchaseDollars.Add(p.Dollars)
		}
	}
	return out
}

// SalesSummary sums the sales measures per (VendorNo, Brand).
func SalesSummary(in []records.SaleRecord) []SalesRow {
	pos := make(map[string]int)
	var out []SalesRow
	for _, s := range in {
		k := groupKey(s.VendorNo.Key(), s.Brand.Key())
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, SalesRow{VendorNo: s.VendorNo, Brand: s.Brand, Description: s.Description})
		}
		g := &out[i]
		g.TotalSalesDollars = g.TotalSalesDollars.Add(s.SalesDollars)
		g.TotalSalesPrice = g.TotalSalesPrice.Add(s.SalesPrice)
		g.TotalSalesQuantity = g.TotalSalesQuantity.Add(s.SalesQuantity)
		g.TotalExciseTax = g.TotalExciseTax.Add(s.ExciseTax)
	}
	return out
}

// Combine left-outer-joins purchases with sales on (VendorNumber = VendorNo,
// Brand) and then with freight on VendorNumber, and orders the result by
// TotalPurchaseDollars descending with absent totals last. Ties keep the
// order of ps. Every element of ps appears exactly once.
func Combine(ps []PurchaseRow, ss []SalesRow, fs []FreightRow) []Row {
	vendorNum := anyNumber(ps, func(p PurchaseRow) records.Scalar { return p.VendorNumber })
	salesVendorKey := keyFn(vendorNum ||
		anyNumber(ss, func(s SalesRow) records.Scalar { return s.VendorNo }))
	salesBrandKey := keyFn(
		anyNumber(ps, func(p PurchaseRow) records.Scalar { return p.Brand }) ||
			anyNumber(ss, func(s SalesRow) records.Scalar { return s.Brand }))
	freightKey := keyFn(vendorNum ||
		anyNumber(fs, func(f FreightRow) records.Scalar { return f.VendorNumber }))

	sales := make(map[string]SalesRow, len(ss))
	for _, s := range ss {
		if joinable(s.VendorNo, s.Brand) {
			sales[groupKey(salesVendorKey(s.VendorNo), salesBrandKey(s.Brand))] = s
		}
	}
	freight := make(map[string]records.NullFloat, len(fs))
	for _, f := range fs {
		if joinable(f.VendorNumber) {
			freight[freightKey(f.VendorNumber)] = f.FreightCost
		}
	}

	out := make([]Row, len(ps))
	for i, p := range ps {
		r := Row{PurchaseRow: p}
		if joinable(p.VendorNumber, p.Brand) {
			if s, ok := sales[groupKey(salesVendorKey(p.VendorNumber), salesBrandKey(p.Brand))]; ok {
				r.TotalSalesDollars = s.TotalSalesDollars
				r.TotalSalesPrice = s.TotalSalesPrice
				r.TotalSalesQuantity = s.TotalSalesQuantity
				r.TotalExciseTax = s.TotalExciseTax
			}
		}
		if joinable(p.VendorNumber) {
			r.FreightCost = freight[freightKey(p.VendorNumber)]
		}
		out[i] = r
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TotalPurchaseDollars, out[j].TotalPurchaseDollars
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Float > b.Float
	})
	return out
}

// Build reads the four staging tables from st and returns the combined,
// ordered summary rows.
func Build(ctx context.Context, st storage.Store) ([]Row, error) {
	purchases, err := ReadPurchases(ctx, st)
	if err != nil {
		return nil, err
	}
	prices, err := ReadPrices(ctx, st)
	if err != nil {
		return nil, err
	}
	sales, err := ReadSales(ctx, st)
	if err != nil {
		return nil, err
	}
	freight, err := ReadFreight(ctx, st)
	if err != nil {
		return nil, err
	}

	ps := PurchasesSummary(purchases, prices)
	ss := SalesSummary(sales)
	fs := FreightSummary(freight)
	rows := Combine(ps, ss, fs)

	log.Printf("summary: purchase_groups=%d sales_groups=%d freight_groups=%d rows=%d",
		len(ps), len(ss), len(fs), len(rows))
	return rows, nil
}
