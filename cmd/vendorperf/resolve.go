package main

import (
	"log"
	"os"
	"strings"

	"vendorperf/internal/config"
	"vendorperf/internal/metrics"
	"vendorperf/internal/metrics/datadog"
	"vendorperf/internal/metrics/prompush"
)

const (
	defaultPushGatewayURL = "http://localhost:9091"
	defaultDogStatsDAddr  = "127.0.0.1:8125"
)

// resolveConfig builds the effective pipeline with precedence
// flag → env → file → defaults.
func resolveConfig(o options) (config.Pipeline, error) {
	var p config.Pipeline
	if o.cfgPath != "" {
		var err error
		if p, err = config.Load(o.cfgPath); err != nil {
			return p, err
		}
	}

	p, err := config.ApplyEnv(p)
	if err != nil {
		return p, err
	}

	if o.dataDir != "" {
		p.Source.Dir = o.dataDir
	}
	if o.storageKind != "" {
		p.Storage.Kind = o.storageKind
	}
	if o.dsn != "" {
		p.Storage.DB.DSN = o.dsn
	}
	if o.exportPath != "" {
		p.Export.Path = o.exportPath
	}
	return config.WithDefaults(p), nil
}

// setupMetrics installs the backend chosen by flag → env → none and returns
// a function that flushes it. Backend init failures are logged and leave the
// no-op backend in place.
func setupMetrics(o options, job string) (flush func()) {
	noop := func() {}

	name := firstNonEmpty(o.metricsBackend, os.Getenv("METRICS_BACKEND"))
	var (
		b   metrics.Backend
		err error
	)
	switch strings.ToLower(name) {
	case "pushgateway":
		gwURL := firstNonEmpty(o.pushGatewayURL, os.Getenv("PUSHGATEWAY_URL"), defaultPushGatewayURL)
		b, err = prompush.NewBackend(job, gwURL)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, name, job)
		}
	case "datadog":
		addr := firstNonEmpty(os.Getenv("DOGSTATSD_ADDR"), defaultDogStatsDAddr)
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "vendorperf.",
			GlobalTags: []string{"job:" + job},
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v, job_name=%v", addr, name, job)
		}
	case "", "none":
		return noop
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", name)
		return noop
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", name, err)
		return noop
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
