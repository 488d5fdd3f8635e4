// Package builtin contains the small per-field transforms used while
// cleaning summary rows.
package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"vendorperf/internal/records"
)

// Float coerces a staged cell to a float. NULL stays absent, numbers pass
// through and numeric text is parsed (surrounding spaces allowed). NaN is
// treated as absent. Anything else is a *records.TypeCoercionError naming
// column and row.
func Float(column string, row int, v records.Scalar) (records.NullFloat, error) {
	switch x := v.Value().(type) {
	case nil:
		return records.NullFloat{}, nil
	case int64:
		return records.Float(float64(x)), nil
	case float64:
		return nanAbsent(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return records.NullFloat{}, &records.TypeCoercionError{Column: column, Row: row, Value: x, Err: err}
		}
		return nanAbsent(f), nil
	default:
		return records.NullFloat{}, &records.TypeCoercionError{
			Column: column, Row: row, Value: x, Err: fmt.Errorf("unsupported type %T", x),
		}
	}
}

func nanAbsent(f float64) records.NullFloat {
	if math.IsNaN(f) {
		return records.NullFloat{}
	}
	return records.Float(f)
}
