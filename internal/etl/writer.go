package etl

import (
	"context"
	"log"

	"vendorperf/internal/records"
	"vendorperf/internal/storage"
)

// WriteSummary replaces table with recs. The store keeps the previous table
// intact if the write fails, and the failure is returned as
// *records.StoreWriteError.
func WriteSummary(ctx context.Context, st storage.Store, table string, recs []records.VendorSummaryRecord) (int64, error) {
	if table == "" {
		table = records.DefaultSummaryTable
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Values()
	}
	n, err := st.ReplaceTable(ctx, records.SummaryTableDef(table, recs), rows)
	if err != nil {
		return 0, &records.StoreWriteError{Table: table, Err: err}
	}
	log.Printf("writer: table=%s rows=%d", table, n)
	return n, nil
}
