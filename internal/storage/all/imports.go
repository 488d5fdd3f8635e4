// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. After that the kinds "sqlite",
// "postgres", "mssql" and "mysql" are available to storage.New.
//
// Typical usage (in cmd/vendorperf/main.go):
//
//	import _ "vendorperf/internal/storage/all"
//
//	st, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DB.DSN})
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "vendorperf/internal/storage/mssql"
	_ "vendorperf/internal/storage/mysql"
	_ "vendorperf/internal/storage/postgres"
	_ "vendorperf/internal/storage/sqlite"
)
