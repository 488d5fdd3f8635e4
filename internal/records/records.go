package records

import "vendorperf/internal/ddl"

// Kind names a staged entity. It doubles as the staging table name and the
// raw file name without extension.
type Kind string

const (
	KindPurchases Kind = "purchases"
	KindPrices    Kind = "purchase_prices"
	KindSales     Kind = "sales"
	KindFreight   Kind = "vendor_invoice"
)

// RequiredColumns lists, per kind, the staged columns the aggregation reads.
var RequiredColumns = map[Kind][]string{
	KindPurchases: {"VendorNumber", "VendorName", "Brand", "Description", "PurchasePrice", "Quantity", "Dollars"},
	KindPrices:    {"Brand", "Price", "Volume"},
	KindSales:     {"VendorNo", "Brand", "Description", "SalesDollars", "SalesPrice", "SalesQuantity", "ExciseTax"},
	KindFreight:   {"VendorNumber", "Freight"},
}

// Kinds lists the staged kinds the aggregation needs, in a fixed order.
var Kinds = []Kind{KindPurchases, KindPrices, KindSales, KindFreight}

// DefaultSummaryTable is the output table written at the end of a run.
const DefaultSummaryTable = "vendor_sales_summary"

// PurchaseRecord is one row of the purchases table.
type PurchaseRecord struct {
	VendorNumber  Scalar
	VendorName    Scalar
	Brand         Scalar
	Description   Scalar
	PurchasePrice NullFloat
	Quantity      NullFloat
	Dollars       NullFloat
}

func (PurchaseRecord) Kind() Kind { return KindPurchases }

// PriceRecord is one row of the purchase_prices table. Volume stays raw
// until the cleaning stage coerces it.
type PriceRecord struct {
	Brand  Scalar
	Price  NullFloat
	Volume Scalar
}

func (PriceRecord) Kind() Kind { return KindPrices }

// SaleRecord is one row of the sales table.
type SaleRecord struct {
	VendorNo      Scalar
	Brand         Scalar
	Description   Scalar
	SalesDollars  NullFloat
	SalesPrice    NullFloat
	SalesQuantity NullFloat
	ExciseTax     NullFloat
}

func (SaleRecord) Kind() Kind { return KindSales }

// FreightRecord is one row of the vendor_invoice table.
type FreightRecord struct {
	VendorNumber Scalar
	Freight      NullFloat
}

func (FreightRecord) Kind() Kind { return KindFreight }

// VendorSummaryRecord is one fully populated output row. Identity fields
// are never NULL; metric fields may hold ±Inf or NaN when their denominator
// is zero.
//
// Stores that cannot hold those values write NULL instead, so the stored
// output table is not always NULL-free: SQLite stores NaN (a 0/0 ratio) as
// NULL, and SQL Server and MySQL store NaN and ±Inf as NULL. Postgres keeps
// all three.
type VendorSummaryRecord struct {
	VendorNumber          Scalar
	VendorName            Scalar
	Brand                 Scalar
	Description           Scalar
	PurchasePrice         float64
	ActualPrice           float64
	Volume                float64
	TotalPurchaseQuantity float64
	TotalPurchaseDollars  float64
	TotalSalesDollars     float64
	TotalSalesPrice       float64
	TotalSalesQuantity    float64
	TotalExciseTax        float64
	FreightCost           float64
	GrossProfit           float64
	ProfitMargin          float64
	StockTurnover         float64
	SalestoPurchaseRatio  float64
}

// SummaryColumns lists the output columns in table order.
var SummaryColumns = []string{
	"VendorNumber",
	"VendorName",
	"Brand",
	"Description",
	"PurchasePrice",
	"ActualPrice",
	"Volume",
	"TotalPurchaseQuantity",
	"TotalPurchaseDollars",
	"TotalSalesDollars",
	"TotalSalesPrice",
	"TotalSalesQuantity",
	"TotalExciseTax",
	"FreightCost",
	"GrossProfit",
	"ProfitMargin",
	"StockTurnover",
	"SalestoPurchaseRatio",
}

// Values returns the row aligned to SummaryColumns.
func (r VendorSummaryRecord) Values() []any {
	return []any{
		r.VendorNumber.Value(),
		r.VendorName.Value(),
		r.Brand.Value(),
		r.Description.Value(),
		r.PurchasePrice,
		r.ActualPrice,
		r.Volume,
		r.TotalPurchaseQuantity,
		r.TotalPurchaseDollars,
		r.TotalSalesDollars,
		r.TotalSalesPrice,
		r.TotalSalesQuantity,
		r.TotalExciseTax,
		r.FreightCost,
		r.GrossProfit,
		r.ProfitMargin,
		r.StockTurnover,
		r.SalestoPurchaseRatio,
	}
}

func (r VendorSummaryRecord) identity() [4]Scalar {
	return [4]Scalar{r.VendorNumber, r.VendorName, r.Brand, r.Description}
}

// SummaryTableDef returns the output table definition. Identity columns take
// the narrowest type that fits every row (a vendor number staged as INTEGER
// stays INTEGER); metric columns are always REAL.
func SummaryTableDef(table string, recs []VendorSummaryRecord) ddl.TableDef {
	cols := make([]ddl.ColumnDef, len(SummaryColumns))
	for i, name := range SummaryColumns {
		cols[i] = ddl.ColumnDef{Name: name, Type: ddl.TypeReal, Nullable: true}
	}
	for i := range 4 {
		vals := make([]any, len(recs))
		for j, r := range recs {
			vals[j] = r.identity()[i].Value()
		}
		cols[i].Type = ddl.InferValueType(vals)
	}
	return ddl.TableDef{FQN: table, Columns: cols}
}
