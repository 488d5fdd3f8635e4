package mysql

import (
	"strings"

	"vendorperf/internal/ddl"
)

// maxPlaceholders is the MySQL prepared statement limit.
const maxPlaceholders = 65535

// Dialect renders MySQL DDL and DML.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

// QuoteIdent applies backtick quoting.
func (Dialect) QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// MapType maps a logical type to a MySQL column type.
func (Dialect) MapType(t ddl.ColumnType) string {
	switch t {
	case ddl.TypeInteger:
		return "BIGINT"
	case ddl.TypeReal:
		return "DOUBLE"
	case ddl.TypeText:
		return "TEXT"
	default:
		return ""
	}
}

// Placeholder returns "?".
func (Dialect) Placeholder(int) string { return "?" }
