// Package transformer turns combined summary rows into fully populated
// output records: Volume is coerced to a number, absent values become zero,
// VendorName is trimmed and the derived metrics are computed.
package transformer

import "vendorperf/internal/records"

// Transformer rewrites a batch of output records.
type Transformer interface {
	Apply([]records.VendorSummaryRecord) []records.VendorSummaryRecord
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.VendorSummaryRecord) []records.VendorSummaryRecord {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
