// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render the statements a table replace needs: DROP, CREATE and a
// multi-row INSERT.
//
// Dialect details (identifier quoting, type names, placeholders) come from a
// Dialect supplied by each storage backend.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the SQL differences between backends.
type Dialect interface {
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(id string) string
	// MapType maps a logical column type to a concrete SQL type.
	MapType(t ColumnType) string
	// Placeholder returns the bind placeholder for the n-th (1-based) argument.
	Placeholder(n int) string
}

// QuoteFQN quotes each non-empty segment of a dotted table name.
func QuoteFQN(d Dialect, fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement:
//
//	CREATE TABLE "table" (
//	  "col1" TYPE [NOT NULL],
//	  "col2" TYPE
//	);
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := d.MapType(c.Type)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s has unmapped type %q", name, c.Type)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		QuoteFQN(d, fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(d Dialect, fqn string) string {
	return "DROP TABLE IF EXISTS " + QuoteFQN(d, fqn)
}

// BuildInsertSQL renders a multi-row INSERT for nrows rows of the given
// columns, numbering placeholders row-major.
func BuildInsertSQL(d Dialect, fqn string, columns []string, nrows int) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("ddl: insert into %s: columns must not be empty", fqn)
	}
	if nrows <= 0 {
		return "", fmt.Errorf("ddl: insert into %s: nrows must be > 0", fqn)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", QuoteFQN(d, fqn), strings.Join(quoted, ", "))
	n := 1
	for r := 0; r < nrows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String(), nil
}
