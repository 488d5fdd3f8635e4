package builtin

import (
	"strings"

	"vendorperf/internal/records"
)

// Normalize trims surrounding whitespace, including no-break spaces, from
// VendorName. Non-text names are left alone.
type Normalize struct{}

func (Normalize) Apply(in []records.VendorSummaryRecord) []records.VendorSummaryRecord {
	for i := range in {
		if s, ok := in[i].VendorName.Value().(string); ok {
			in[i].VendorName = records.Text(strings.TrimSpace(s))
		}
	}
	return in
}
