package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Defaults applied by WithDefaults.
const (
	DefaultJob         = "vendor-summary"
	DefaultDataDir     = "data"
	DefaultStorageKind = "sqlite"
	DefaultDSN         = "inventory.db"
	DefaultOutputTable = "vendor_sales_summary"
	DefaultBatchSize   = 500
)

// Load reads a Pipeline from path. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON. Unknown JSON fields are rejected.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("decode json %s: %w", path, err)
		}
	}
	return p, nil
}

// WithDefaults returns p with zero-valued fields filled in.
func WithDefaults(p Pipeline) Pipeline {
	if strings.TrimSpace(p.Job) == "" {
		p.Job = DefaultJob
	}
	if p.Source.Kind == "" {
		p.Source.Kind = "file"
	}
	if p.Source.Dir == "" {
		p.Source.Dir = DefaultDataDir
	}
	if p.Source.Encoding == "" {
		p.Source.Encoding = "utf-8"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if p.Storage.Kind == "" {
		p.Storage.Kind = DefaultStorageKind
	}
	if p.Storage.DB.DSN == "" && p.Storage.Kind == DefaultStorageKind {
		p.Storage.DB.DSN = DefaultDSN
	}
	if p.Storage.DB.OutputTable == "" {
		p.Storage.DB.OutputTable = DefaultOutputTable
	}
	if p.Runtime.BatchSize == 0 {
		p.Runtime.BatchSize = DefaultBatchSize
	}
	if p.Runtime.LoaderWorkers == 0 {
		p.Runtime.LoaderWorkers = 1
	}
	return p
}

// Env holds the VENDORPERF_* environment overrides. Unset variables leave
// the corresponding config field alone.
type Env struct {
	Job           string `envconfig:"JOB"`
	DataDir       string `envconfig:"DATA_DIR"`
	Encoding      string `envconfig:"ENCODING"`
	Storage       string `envconfig:"STORAGE"`
	DSN           string `envconfig:"DSN"`
	OutputTable   string `envconfig:"OUTPUT_TABLE"`
	BatchSize     int    `envconfig:"BATCH_SIZE"`
	LoaderWorkers int    `envconfig:"LOADER_WORKERS"`
	Export        string `envconfig:"EXPORT"`
}

// EnvPrefix is the environment variable prefix, e.g. VENDORPERF_DSN.
const EnvPrefix = "VENDORPERF"

// ApplyEnv overlays VENDORPERF_* variables onto p.
func ApplyEnv(p Pipeline) (Pipeline, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return p, fmt.Errorf("env overrides: %w", err)
	}
	return e.apply(p), nil
}

func (e Env) apply(p Pipeline) Pipeline {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&p.Job, e.Job)
	setStr(&p.Source.Dir, e.DataDir)
	setStr(&p.Source.Encoding, e.Encoding)
	setStr(&p.Storage.Kind, e.Storage)
	setStr(&p.Storage.DB.DSN, e.DSN)
	setStr(&p.Storage.DB.OutputTable, e.OutputTable)
	setStr(&p.Export.Path, e.Export)
	if e.BatchSize != 0 {
		p.Runtime.BatchSize = e.BatchSize
	}
	if e.LoaderWorkers != 0 {
		p.Runtime.LoaderWorkers = e.LoaderWorkers
	}
	return p
}
