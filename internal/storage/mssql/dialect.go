package mssql

import (
	"strconv"
	"strings"

	"vendorperf/internal/ddl"
)

// Dialect renders SQL Server DDL and DML.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

// QuoteIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func (Dialect) QuoteIdent(id string) string { return msIdent(id) }

// MapType maps a logical type to a SQL Server column type.
func (Dialect) MapType(t ddl.ColumnType) string {
	switch t {
	case ddl.TypeInteger:
		return "BIGINT"
	case ddl.TypeReal:
		return "FLOAT"
	case ddl.TypeText:
		return "NVARCHAR(MAX)"
	default:
		return ""
	}
}

// Placeholder returns @pN.
func (Dialect) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// msFQN quotes a possibly schema-qualified name like "dbo.summary" to
// "[dbo].[summary]".
func msFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = msIdent(p)
	}
	return strings.Join(parts, ".")
}
