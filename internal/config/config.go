// Package config defines the JSON/YAML configuration model for a
// vendorperf run and helpers to load, default, override and validate it.
//
// Example (trimmed):
//
//	{
//	  "job":     "vendor-summary",
//	  "source":  { "kind": "file", "dir": "data", "encoding": "utf-8" },
//	  "parser":  { "kind": "csv", "options": { "comma": ",", "trim_space": false } },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "inventory.db", "output_table": "vendor_sales_summary" } },
//	  "runtime": { "batch_size": 500, "loader_workers": 1 },
//	  "export":  { "path": "out/vendor_sales_summary.xlsx" }
//	}
package config

import "encoding/json"

// Pipeline describes a full run. It is the top-level object decoded from a
// config file.
type Pipeline struct {
	// Job names the run for logs and metrics labels.
	Job string `json:"job" yaml:"job" validate:"required"`

	// Source describes where the raw entity files come from.
	Source Source `json:"source" yaml:"source"`

	// Parser configures how raw bytes are turned into rows.
	Parser Parser `json:"parser" yaml:"parser"`

	// Storage describes the staging/output store.
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
	Export  Export        `json:"export" yaml:"export"`
}

// RuntimeConfig controls batching and loader parallelism.
type RuntimeConfig struct {
	// BatchSize caps rows per INSERT/COPY batch.
	BatchSize int `json:"batch_size" yaml:"batch_size" validate:"gte=0"`
	// LoaderWorkers is the number of files parsed concurrently. Store writes
	// are serialized regardless.
	LoaderWorkers int `json:"loader_workers" yaml:"loader_workers" validate:"gte=0"`
}

// Source identifies the raw data location.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind" yaml:"kind"`

	// Dir is the directory holding one CSV file per entity kind.
	Dir string `json:"dir" yaml:"dir" validate:"required"`

	// Encoding is the text encoding of the source files.
	Encoding string `json:"encoding" yaml:"encoding" validate:"omitempty,oneof=utf-8 utf8 windows-1252 cp1252 iso-8859-1 latin1"`
}

// Parser selects how to parse raw files.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind" yaml:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV: comma (string), trim_space (bool).
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the store used for staging and output.
type Storage struct {
	// Kind selects the backend: sqlite, postgres, mssql or mysql.
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the store connection and output table.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn" yaml:"dsn" validate:"required"`

	// OutputTable names the summary table. Defaults to vendor_sales_summary.
	OutputTable string `json:"output_table" yaml:"output_table"`
}

// Export optionally writes the final summary to a file as well.
type Export struct {
	// Path of the export file; ".csv" or ".xlsx" selects the format. Empty
	// disables the export.
	Path string `json:"path" yaml:"path"`
}

// Options fetches typed values from a free-form map decoded from JSON or
// YAML. It performs only minimal type coercion and returns provided defaults
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such as
// a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null "options"
// object in JSON decodes to a non-nil, empty Options map. This simplifies call
// sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
