// Package sqlite implements a SQLite-backed storage.Store.
package sqlite

// Config holds SQLite store configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:inventory.db?_pragma=busy_timeout(5000)"
	//   "inventory.db" (interpreted by the driver)
	//   ":memory:"
	DSN string

	// BatchSize caps the rows per multi-row INSERT. The effective size is
	// further capped so a statement never exceeds SQLite's bind limit.
	BatchSize int
}
