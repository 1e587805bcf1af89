// Package config loads tuning parameters for the demonstration CLI and any
// other host that embeds the hnsw core.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/nexsdb/hnswcore"
)

// HNSWConfig holds the tuning parameters a host needs to construct an Index
// and drive a k-NN query loop.
type HNSWConfig struct {
	// Dim is the fixed vector dimension every inserted vector must match.
	Dim int

	// M is the target per-node out-degree.
	M int

	// EfConstruction is the beam width used during insertion (and, per the
	// core's own simplified search contract, during search as well).
	EfConstruction int

	// EfSearch is accepted for forward compatibility with a future core
	// that exposes a separate query-time beam width; the current core
	// always uses EfConstruction (see hnsw.Index.SearchKNN), so this field
	// is recorded but unused by the demonstration CLI.
	EfSearch int

	// Metric selects the built-in similarity kernel.
	Metric hnsw.MetricTag

	// LogLevel is the logging level: debug, info, warn, error.
	LogLevel string

	// LogFormat is the log output format: json or text.
	LogFormat string

	// DumpPath, if non-empty, is where the demonstration CLI flattens the
	// index to and reloads it from.
	DumpPath string
}

// Load reads HNSWConfig from environment variables and command-line flags,
// following the same env-then-flag-default precedence as the collaborator
// project's own loader.
func Load() (*HNSWConfig, error) {
	cfg := &HNSWConfig{}

	metricName := getEnvOrDefault("HNSWCORE_METRIC", "euclidean")

	flag.IntVar(&cfg.Dim, "dim", getEnvInt("HNSWCORE_DIM", 128),
		"vector dimension")
	flag.IntVar(&cfg.M, "m", getEnvInt("HNSWCORE_M", 16),
		"target per-node out-degree")
	flag.IntVar(&cfg.EfConstruction, "ef-construction", getEnvInt("HNSWCORE_EF_CONSTRUCTION", 200),
		"beam width used during insertion and search")
	flag.IntVar(&cfg.EfSearch, "ef-search", getEnvInt("HNSWCORE_EF_SEARCH", 64),
		"reserved query-time beam width (unused by the current core)")
	flag.StringVar(&metricName, "metric", metricName,
		"similarity kernel: euclidean, cosine, dot, or manhattan")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnvOrDefault("HNSWCORE_LOG_LEVEL", "info"),
		"log level: debug, info, warn, error")
	flag.StringVar(&cfg.LogFormat, "log-format", getEnvOrDefault("HNSWCORE_LOG_FORMAT", "json"),
		"log format: json or text")
	flag.StringVar(&cfg.DumpPath, "dump-path", getEnvOrDefault("HNSWCORE_DUMP_PATH", ""),
		"optional path to flatten the index to and reload it from")

	flag.Parse()

	tag, err := parseMetricTag(metricName)
	if err != nil {
		return nil, err
	}
	cfg.Metric = tag

	return cfg, nil
}

func parseMetricTag(name string) (hnsw.MetricTag, error) {
	switch name {
	case "euclidean":
		return hnsw.MetricEuclidean, nil
	case "cosine":
		return hnsw.MetricCosine, nil
	case "dot":
		return hnsw.MetricDot, nil
	case "manhattan":
		return hnsw.MetricManhattan, nil
	default:
		return 0, fmt.Errorf("config: unknown metric %q", name)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}
