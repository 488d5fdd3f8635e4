package ddl

import (
	"math"
	"strconv"
	"strings"
)

// InferType guesses the narrowest logical type for a column of raw text
// cells: integer, then real, then text. Empty cells are ignored; a column
// with no non-empty cells is text.
func InferType(values []string) ColumnType {
	isInt, isReal, seen := true, true, false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt && isReal && !isFinite(v) {
			isReal = false
			break
		}
	}
	switch {
	case !seen:
		return TypeText
	case isInt:
		return TypeInteger
	case isReal:
		return TypeReal
	default:
		return TypeText
	}
}

// ParseCell converts a raw text cell into a value of typ. Empty cells become
// nil. The caller is expected to have chosen typ with InferType, so parse
// failures fall back to the raw string.
func ParseCell(s string, typ ColumnType) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	switch typ {
	case TypeInteger:
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return i
		}
	case TypeReal:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return s
}

// InferValueType picks the narrowest logical type that holds every non-nil
// value: integer when all are int64, real when all are numeric, text
// otherwise.
func InferValueType(values []any) ColumnType {
	typ := TypeInteger
	for _, v := range values {
		switch v.(type) {
		case nil, int64:
		case float64:
			typ = TypeReal
		default:
			return TypeText
		}
	}
	return typ
}

func isFinite(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}
