package sqlite

import (
	"strings"

	"vendorperf/internal/ddl"
)

// maxVars is SQLite's default SQLITE_MAX_VARIABLE_NUMBER since 3.32.
const maxVars = 32766

// Dialect renders SQLite DDL and DML.
//
// SQLite supports dynamic typing, so the mapping uses the canonical
// affinities: integer -> INTEGER, real -> REAL, text -> TEXT.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

// QuoteIdent applies double-quote identifier quoting.
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// MapType maps a logical type to a SQLite column type.
func (Dialect) MapType(t ddl.ColumnType) string {
	switch t {
	case ddl.TypeInteger:
		return "INTEGER"
	case ddl.TypeReal:
		return "REAL"
	case ddl.TypeText:
		return "TEXT"
	default:
		return ""
	}
}

// Placeholder returns "?"; SQLite binds positionally.
func (Dialect) Placeholder(int) string { return "?" }
