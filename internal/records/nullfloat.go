package records

import "strconv"

// NullFloat is a float64 that may be absent, mirroring a nullable SQL
// numeric column.
type NullFloat struct {
	Float float64
	Valid bool
}

// Float returns a present NullFloat holding f.
func Float(f float64) NullFloat { return NullFloat{Float: f, Valid: true} }

// Or returns the value, or def when absent.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float
}

// Add accumulates o into n with SQL SUM semantics: absent inputs are
// skipped and a sum over only absent inputs stays absent.
func (n NullFloat) Add(o NullFloat) NullFloat {
	switch {
	case !o.Valid:
		return n
	case !n.Valid:
		return o
	default:
		return NullFloat{Float: n.Float + o.Float, Valid: true}
	}
}

// Key returns a grouping key; absent values share one key.
func (n NullFloat) Key() string {
	if !n.Valid {
		return nullKey
	}
	return "n:" + floatKey(n.Float)
}

// Value returns the float or nil, ready to bind as a query argument.
func (n NullFloat) Value() any {
	if !n.Valid {
		return nil
	}
	return n.Float
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "NULL"
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}
