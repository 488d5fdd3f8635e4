// Package records defines the typed rows that flow through the vendor
// performance pipeline: one struct per staged entity kind plus the derived
// VendorSummaryRecord written to the output table.
//
// Staged cells arrive from the store as nil, int64, float64 or string
// (backends may also hand back []byte or other integer widths). Scalar wraps
// such a cell and gives it the comparison semantics a SQL engine would apply
// when joining or grouping on it.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scalar is a single staged cell value: nil, int64, float64 or string.
type Scalar struct{ v any }

// ScalarOf normalizes v into a Scalar. Integer widths collapse to int64,
// float32 widens to float64 and []byte becomes string.
func ScalarOf(v any) Scalar {
	switch x := v.(type) {
	case nil:
		return Scalar{}
	case int64, float64, string:
		return Scalar{v: x}
	case int:
		return Scalar{v: int64(x)}
	case int32:
		return Scalar{v: int64(x)}
	case int16:
		return Scalar{v: int64(x)}
	case int8:
		return Scalar{v: int64(x)}
	case uint32:
		return Scalar{v: int64(x)}
	case uint16:
		return Scalar{v: int64(x)}
	case uint8:
		return Scalar{v: int64(x)}
	case float32:
		return Scalar{v: float64(x)}
	case bool:
		if x {
			return Scalar{v: int64(1)}
		}
		return Scalar{v: int64(0)}
	case []byte:
		return Scalar{v: string(x)}
	case Scalar:
		return x
	default:
		return Scalar{v: fmt.Sprint(x)}
	}
}

// Text is shorthand for a string Scalar.
func Text(s string) Scalar { return Scalar{v: s} }

// Int is shorthand for an int64 Scalar.
func Int(i int64) Scalar { return Scalar{v: i} }

// IsNull reports whether the cell is absent.
func (s Scalar) IsNull() bool { return s.v == nil }

// Value returns the underlying value (nil, int64, float64 or string).
func (s Scalar) Value() any { return s.v }

// Str returns the string form of the value, or "" for NULL.
func (s Scalar) Str() string {
	if s.v == nil {
		return ""
	}
	return toString(s.v)
}

// OrZero returns s, or integer 0 when s is NULL.
func (s Scalar) OrZero() Scalar {
	if s.v == nil {
		return Int(0)
	}
	return s
}

// nullKey never collides with a non-NULL key.
const nullKey = "\x00"

// Key returns a canonical comparison form. Numbers compare by value, so 12
// and 12.0 share a key; text compares verbatim, so "0012" and "12" differ.
// All NULLs share one key, which is what GROUP BY wants; joins must check
// IsNull.
func (s Scalar) Key() string {
	switch x := s.v.(type) {
	case nil:
		return nullKey
	case int64:
		return "n:" + strconv.FormatInt(x, 10)
	case float64:
		return "n:" + floatKey(x)
	case string:
		return "s:" + x
	default:
		return "s:" + toString(x)
	}
}

// NumericKey is the key s compares by against a numeric column: text that
// reads as a finite number takes that number's key, anything else keeps Key.
func (s Scalar) NumericKey() string {
	x, ok := s.v.(string)
	if !ok {
		return s.Key()
	}
	t := strings.TrimSpace(x)
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return "n:" + strconv.FormatInt(i, 10)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return "n:" + floatKey(f)
	}
	return s.Key()
}

// IsNumber reports whether the cell holds an int64 or float64.
func (s Scalar) IsNumber() bool {
	switch s.v.(type) {
	case int64, float64:
		return true
	}
	return false
}

func floatKey(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
