package transformer

import (
	"vendorperf/internal/records"
	"vendorperf/internal/summary"
	"vendorperf/internal/transformer/builtin"
)

// Default runs after Fill: trim names, then derive metrics.
var Default = Chain{builtin.Normalize{}, Derive{}}

// Clean fills and enriches rows. The only error is a *records.TypeCoercionError
// for a Volume that is not numeric; no records are returned in that case.
func Clean(rows []summary.Row) ([]records.VendorSummaryRecord, error) {
	out, err := Fill(rows)
	if err != nil {
		return nil, err
	}
	return Default.Apply(out), nil
}

// Fill converts rows to output records: Volume is coerced to float and every
// absent value becomes zero. Absent identity cells become integer 0.
func Fill(rows []summary.Row) ([]records.VendorSummaryRecord, error) {
	out := make([]records.VendorSummaryRecord, len(rows))
	for i, r := range rows {
		vol, err := builtin.Float("Volume", i, r.Volume)
		if err != nil {
			return nil, err
		}
		out[i] = records.VendorSummaryRecord{
			VendorNumber:          r.VendorNumber.OrZero(),
			VendorName:            r.VendorName.OrZero(),
			Brand:                 r.Brand.OrZero(),
			Description:           r.Description.OrZero(),
			PurchasePrice:         r.PurchasePrice.Or(0),
			ActualPrice:           r.ActualPrice.Or(0),
			Volume:                vol.Or(0),
			TotalPurchaseQuantity: r.TotalPurchaseQuantity.Or(0),
			TotalPurchaseDollars:  r.TotalPurchaseDollars.Or(0),
			TotalSalesDollars:     r.TotalSalesDollars.Or(0),
			TotalSalesPrice:       r.TotalSalesPrice.Or(0),
			TotalSalesQuantity:    r.TotalSalesQuantity.Or(0),
			TotalExciseTax:        r.TotalExciseTax.Or(0),
			FreightCost:           r.FreightCost.Or(0),
		}
	}
	return out, nil
}
