package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendorperf/internal/config"
	"vendorperf/internal/etl"
	csvparser "vendorperf/internal/parser/csv"
	"vendorperf/internal/probe"
	"vendorperf/internal/storage"

	// register all backends with the storage factory; storage.kind picks one.
	_ "vendorperf/internal/storage/all"
)

// options holds the parsed command-line flags. Empty strings mean "not set".
type options struct {
	cfgPath        string
	dataDir        string
	dsn            string
	storageKind    string
	exportPath     string
	metricsBackend string
	pushGatewayURL string
	validate       bool
	verbose        bool
}

// main loads and validates the pipeline config, installs the metrics
// backend, opens the store and runs the pipeline once.
func main() {
	var o options
	flag.StringVar(&o.cfgPath, "config", "", "pipeline config path (.json, .yaml or .yml); optional")
	flag.StringVar(&o.dataDir, "data", "", "directory with the raw CSV files (overrides source.dir)")
	flag.StringVar(&o.dsn, "dsn", "", "store DSN (overrides storage.db.dsn)")
	flag.StringVar(&o.storageKind, "storage", "", "store kind: sqlite, postgres, mssql or mysql (overrides storage.kind)")
	flag.StringVar(&o.exportPath, "export", "", "also export the summary to this .csv or .xlsx file")
	flag.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (env METRICS_BACKEND)")
	flag.StringVar(&o.pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (env PUSHGATEWAY_URL)")
	flag.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&o.verbose, "v", false, "enable verbose logs")
	flag.Parse()

	if o.verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	p, err := resolveConfig(o)
	if err != nil {
		fatalf("config: %v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", configName(o))
		os.Exit(1)
	}
	if o.validate {
		if !checkData(context.Background(), p) {
			log.Printf("Data directory is not usable: %v", p.Source.Dir)
			os.Exit(1)
		}
		log.Printf("Configuration is valid: %v", configName(o))
		os.Exit(0)
	}

	flush := setupMetrics(o, p.Job)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, p, o.verbose)
	stop()
	flush()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	start := time.Now()
	if verbose {
		log.Printf("pipeline: job=%s dir=%s encoding=%s storage=%s table=%s batch=%d loaders=%d",
			p.Job, p.Source.Dir, p.Source.Encoding, p.Storage.Kind, p.Storage.DB.OutputTable,
			p.Runtime.BatchSize, p.Runtime.LoaderWorkers)
	}

	st, err := newStoreFn(ctx, storage.Config{
		Kind:      p.Storage.Kind,
		DSN:       p.Storage.DB.DSN,
		BatchSize: p.Runtime.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	rep, err := etl.Run(ctx, p, st)
	if err != nil {
		return err
	}
	fmt.Printf("run=%s table=%s rows=%d fingerprint=%s\n", rep.RunID, rep.Table, rep.Rows, rep.Fingerprint)

	if verbose {
		for _, s := range rep.Staged {
			log.Printf("staged: table=%s rows=%d path=%s", s.Table, s.Rows, s.Path)
		}
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

// checkData samples the data directory and prints any problems. It reports
// whether the directory can be loaded and aggregated.
func checkData(ctx context.Context, p config.Pipeline) bool {
	reps, err := probe.Dir(ctx, p.Source.Dir, probe.Options{
		Parser: csvparser.OptionsFrom(p.Parser.Options, p.Source.Encoding),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: source.dir: %v\n", config.SeverityError, err)
		return false
	}
	for _, r := range reps {
		if r.Err == nil {
			log.Printf("probe: file=%s columns=%d sample_rows=%d", r.Path, len(r.Headers), r.SampleRows)
		}
	}
	issues := probe.Issues(p.Source.Dir, reps)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return !config.HasErrors(issues)
}

// newStoreFn is a test seam.
var newStoreFn = storage.New

func configName(o options) string {
	if o.cfgPath == "" {
		return "(flags and environment)"
	}
	return o.cfgPath
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
