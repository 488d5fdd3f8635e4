package summary

import (
	"reflect"
	"testing"

	"vendorperf/internal/records"
)

func purchase(vendor int64, name string, brand int64, price, qty, dollars float64) records.PurchaseRecord {
	return records.PurchaseRecord{
		VendorNumber:  records.Int(vendor),
		VendorName:    records.Text(name),
		Brand:         records.Int(brand),
		Description:   records.Text("desc"),
		PurchasePrice: records.Float(price),
		Quantity:      records.Float(qty),
		Dollars:       records.Float(dollars),
	}
}

func TestFreightSummary(t *testing.T) {
	t.Parallel()

	got := FreightSummary([]records.FreightRecord{
		{VendorNumber: records.Int(1), Freight: records.Float(2.5)},
		{VendorNumber: records.Int(2), Freight: records.NullFloat{}},
		{VendorNumber: records.ScalarOf(1.0), Freight: records.Float(5)},
	})
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	checkFloat(t, "vendor 1 freight", got[0].FreightCost, records.Float(7.5))
	// Only NULL inputs: the sum stays absent.
	if got[1].FreightCost.Valid {
		t.Errorf("vendor 2 freight = %+v, want absent", got[1].FreightCost)
	}
}

func TestPurchasesSummary_FilterJoinAndGroup(t *testing.T) {
	t.Parallel()

	purchases := []records.PurchaseRecord{
		purchase(1, "Acme", 10, 10, 2, 20),
		purchase(1, "Acme", 10, 10, 3, 30),
		purchase(1, "Acme", 10, 0, 100, 1000), // zero price never contributes
		purchase(2, "Beta", 99, 5, 1, 5),      // no price row for brand 99
		purchase(2, "Beta", 11, 5, 1, 5),
	}
	purchases = append(purchases, records.PurchaseRecord{
		VendorNumber: records.Int(3), Brand: records.Int(10), PurchasePrice: records.NullFloat{},
	})
	prices := []records.PriceRecord{
		{Brand: records.Int(10), Price: records.Float(12), Volume: records.Int(750)},
		{Brand: records.Int(11), Price: records.Float(6), Volume: records.Text("1.75L")},
		{Brand: records.Int(11), Price: records.Float(7), Volume: records.Text("1.75L")},
	}

	got := PurchasesSummary(purchases, prices)
	if len(got) != 3 {
		t.Fatalf("got %d groups, want 3", len(got))
	}

	if k := got[0].VendorNumber.Key(); k != "n:1" {
		t.Errorf("first group vendor key = %q, want n:1", k)
	}
	checkFloat(t, "TotalPurchaseQuantity", got[0].TotalPurchaseQuantity, records.Float(5))
	checkFloat(t, "TotalPurchaseDollars", got[0].TotalPurchaseDollars, records.Float(50))
	checkFloat(t, "ActualPrice", got[0].ActualPrice, records.Float(12))

	// Two price rows for brand 11 give two joined groups.
	checkFloat(t, "brand 11 first price", got[1].ActualPrice, records.Float(6))
	checkFloat(t, "brand 11 second price", got[2].ActualPrice, records.Float(7))
	checkFloat(t, "brand 11 dollars", got[2].TotalPurchaseDollars, records.Float(5))
}

func TestPurchasesSummary_BrandKeys(t *testing.T) {
	t.Parallel()

	textPurchase := func(brand string, dollars float64) records.PurchaseRecord {
		p := purchase(1, "Acme", 0, 5, 1, dollars)
		p.Brand = records.Text(brand)
		return p
	}
	purchases := []records.PurchaseRecord{
		textPurchase("0012", 10),
		textPurchase("12", 20),
		textPurchase("X1", 30),
	}

	tests := []struct {
		name   string
		prices []records.PriceRecord
		want   []string
	}{
		{
			name: "text prices match verbatim",
			prices: []records.PriceRecord{
				{Brand: records.Text("12"), Price: records.Float(6)},
				{Brand: records.Text("X1"), Price: records.Float(6)},
			},
			want: []string{"12", "X1"},
		},
		{
			name: "numeric prices match text that reads as the number",
			prices: []records.PriceRecord{
				{Brand: records.Int(12), Price: records.Float(6)},
			},
			want: []string{"0012", "12"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, g := range PurchasesSummary(purchases, tt.prices) {
				got = append(got, g.Brand.Str())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("brands = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSalesSummary(t *testing.T) {
	t.Parallel()

	got := SalesSummary([]records.SaleRecord{
		{VendorNo: records.Int(1), Brand: records.Int(10), Description: records.Text("first"),
			SalesDollars: records.Float(10), SalesQuantity: records.Float(1)},
		{VendorNo: records.Int(1), Brand: records.Int(10), Description: records.Text("second"),
			SalesDollars: records.Float(15), SalesQuantity: records.Float(2), ExciseTax: records.Float(0.5)},
		{VendorNo: records.Int(1), Brand: records.Int(11), SalesDollars: records.Float(1)},
		{VendorNo: records.Int(1), Brand: records.Text("0011"), SalesDollars: records.Float(2)},
		{VendorNo: records.Int(1), Brand: records.Text("11"), SalesDollars: records.Float(3)},
	})
	if len(got) != 4 {
		t.Fatalf("got %d groups, want 4", len(got))
	}
	if d := got[0].Description.Str(); d != "first" {
		t.Errorf("Description = %q, want first", d)
	}
	checkFloat(t, "TotalSalesDollars", got[0].TotalSalesDollars, records.Float(25))
	checkFloat(t, "TotalSalesQuantity", got[0].TotalSalesQuantity, records.Float(3))
	checkFloat(t, "TotalExciseTax", got[0].TotalExciseTax, records.Float(0.5))
	if got[0].TotalSalesPrice.Valid {
		t.Errorf("TotalSalesPrice = %+v, want absent", got[0].TotalSalesPrice)
	}
	// Text brands group verbatim.
	checkFloat(t, "brand 0011", got[2].TotalSalesDollars, records.Float(2))
	checkFloat(t, "brand 11 text", got[3].TotalSalesDollars, records.Float(3))
}

func TestCombine_OuterJoinsAndOrder(t *testing.T) {
	t.Parallel()

	ps := []PurchaseRow{
		{VendorNumber: records.Int(1), Brand: records.Int(10), TotalPurchaseDollars: records.Float(50)},
		{VendorNumber: records.Int(2), Brand: records.Int(20), TotalPurchaseDollars: records.NullFloat{}},
		{VendorNumber: records.Int(3), Brand: records.Int(30), TotalPurchaseDollars: records.Float(80)},
		{VendorNumber: records.Int(4), Brand: records.Int(40), TotalPurchaseDollars: records.Float(50)},
		{VendorNumber: records.Scalar{}, Brand: records.Int(50), TotalPurchaseDollars: records.Float(1)},
	}
	ss := []SalesRow{
		{VendorNo: records.Text("1"), Brand: records.ScalarOf(10.0), TotalSalesDollars: records.Float(60)},
		{VendorNo: records.Int(9), Brand: records.Int(90), TotalSalesDollars: records.Float(999)},
		{VendorNo: records.Scalar{}, Brand: records.Int(50), TotalSalesDollars: records.Float(3)},
	}
	fs := []FreightRow{
		{VendorNumber: records.Int(1), FreightCost: records.Float(7.5)},
		{VendorNumber: records.Scalar{}, FreightCost: records.Float(1)},
	}

	got := Combine(ps, ss, fs)
	if len(got) != len(ps) {
		t.Fatalf("got %d rows, want every purchase group once (%d)", len(got), len(ps))
	}

	var order []string
	for _, r := range got {
		order = append(order, r.VendorNumber.Key())
	}
	// 80, then the two 50s in input order, then 1, then the absent total.
	if want := []string{"n:3", "n:1", "n:4", records.Scalar{}.Key(), "n:2"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %q, want %q", order, want)
	}

	checkFloat(t, "vendor 1 sales", got[1].TotalSalesDollars, records.Float(60))
	checkFloat(t, "vendor 1 freight", got[1].FreightCost, records.Float(7.5))

	if got[2].TotalSalesDollars.Valid || got[2].FreightCost.Valid {
		t.Errorf("vendor 4 matched sales or freight: %+v", got[2])
	}
	// NULL keys never join even though the other side has NULL keys too.
	if got[3].TotalSalesDollars.Valid || got[3].FreightCost.Valid {
		t.Errorf("NULL vendor matched sales or freight: %+v", got[3])
	}
}

func TestCombine_TextBrandsCompareVerbatim(t *testing.T) {
	t.Parallel()

	ps := []PurchaseRow{
		{VendorNumber: records.Int(1), Brand: records.Text("12"), TotalPurchaseDollars: records.Float(20)},
		{VendorNumber: records.Int(1), Brand: records.Text("0012"), TotalPurchaseDollars: records.Float(10)},
	}

	text := Combine(ps, []SalesRow{
		{VendorNo: records.Int(1), Brand: records.Text("0012"), TotalSalesDollars: records.Float(99)},
	}, nil)
	if text[0].TotalSalesDollars.Valid {
		t.Errorf("brand 12 took sales of 0012: %+v", text[0].TotalSalesDollars)
	}
	checkFloat(t, "brand 0012 sales", text[1].TotalSalesDollars, records.Float(99))

	// Against a numeric column both text brands read as 12.
	numeric := Combine(ps, []SalesRow{
		{VendorNo: records.Int(1), Brand: records.Int(12), TotalSalesDollars: records.Float(5)},
	}, nil)
	for _, r := range numeric {
		checkFloat(t, "brand "+r.Brand.Str()+" sales", r.TotalSalesDollars, records.Float(5))
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	cols := []string{"a", "b"}
	a := Fingerprint(cols, [][]any{{int64(1), "x"}, {2.5, nil}})
	b := Fingerprint(cols, [][]any{{1.0, "x"}, {2.5, nil}})
	if a != b {
		t.Errorf("integral float and int64 hash differently: %s vs %s", a, b)
	}
	if swapped := Fingerprint(cols, [][]any{{2.5, nil}, {int64(1), "x"}}); swapped == a {
		t.Errorf("row order does not change the fingerprint")
	}
	if Fingerprint(cols, [][]any{{"ab", "c"}}) == Fingerprint(cols, [][]any{{"a", "bc"}}) {
		t.Errorf("cell boundaries are not part of the fingerprint")
	}
	if len(a) != 16 {
		t.Errorf("len = %d, want 16", len(a))
	}
}
