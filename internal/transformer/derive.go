package transformer

import "vendorperf/internal/records"

// Derive computes GrossProfit, ProfitMargin, StockTurnover and
// SalestoPurchaseRatio in place. A zero denominator yields ±Inf or NaN.
type Derive struct{}

func (Derive) Apply(in []records.VendorSummaryRecord) []records.VendorSummaryRecord {
	for i := range in {
		r := &in[i]
		r.GrossProfit = r.TotalSalesDollars - r.TotalPurchaseDollars
		r.ProfitMargin = r.GrossProfit / r.TotalSalesDollars * 100
		r.StockTurnover = r.TotalSalesQuantity / r.TotalPurchaseQuantity
		r.SalestoPurchaseRatio = r.TotalSalesDollars / r.TotalPurchaseDollars
	}
	return in
}
