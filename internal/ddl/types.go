package ddl

// ColumnType is a logical column type. Backends map it to a concrete SQL
// type through their Dialect.
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeReal    ColumnType = "real"
	TypeText    ColumnType = "text"
)

// ColumnDef describes a single column in a table definition produced or
// consumed by ddl. It intentionally uses simple, database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - Type: logical type, mapped to SQL by Dialect.MapType
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// TableDef holds the table name (FQN) and an ordered list of columns. The
// FQN may be dotted (e.g., "schema.table") and is quoted per segment by
// renderers.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
