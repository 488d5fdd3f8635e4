package records

import "fmt"

// SourceReadError reports a raw input file that could not be read or parsed.
// It aborts the run.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// TypeCoercionError reports a cell that could not be coerced to the type a
// column requires. Row is the 0-based position in the row set being coerced.
type TypeCoercionError struct {
	Column string
	Row    int
	Value  any
	Err    error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("coerce %s at row %d: value %#v: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// MissingColumnError reports a staged table that lacks a column the
// aggregation needs.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: missing column %s", e.Table, e.Column)
}

// StoreWriteError reports a failure to persist a table. The table is left as
// it was before the write started.
type StoreWriteError struct {
	Table string
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("write table %s: %v", e.Table, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
