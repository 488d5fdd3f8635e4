package postgres

import (
	"strconv"
	"strings"

	"vendorperf/internal/ddl"
)

// Dialect renders Postgres DDL and DML.
type Dialect struct{}

var _ ddl.Dialect = Dialect{}

// QuoteIdent applies double-quote identifier quoting.
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// MapType maps a logical type to a Postgres column type. DOUBLE PRECISION
// stores Infinity and NaN natively, so degenerate metrics survive a round
// trip.
func (Dialect) MapType(t ddl.ColumnType) string {
	switch t {
	case ddl.TypeInteger:
		return "BIGINT"
	case ddl.TypeReal:
		return "DOUBLE PRECISION"
	case ddl.TypeText:
		return "TEXT"
	default:
		return ""
	}
}

// Placeholder returns $n.
func (Dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// identifier splits a dotted FQN into the pgx.Identifier parts CopyFrom
// expects.
func identifier(fqn string) []string {
	parts := strings.Split(fqn, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
