// Command hnswdemo builds an hnsw.Index from synthetic or file-supplied
// vectors, runs a handful of k-NN queries against it, and optionally
// round-trips it through Flatten/Reconstitute. It is host glue only: every
// algorithmic decision lives in the hnsw package, not here.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nexsdb/hnswcore"
	"github.com/nexsdb/hnswcore/internal/config"
	"github.com/nexsdb/hnswcore/internal/logger"
	"github.com/nexsdb/hnswcore/internal/version"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "shutdown signal received")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hnswdemo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(&logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	log := logger.Get()

	log.Info("hnswdemo starting",
		slog.String("version", version.String()),
		slog.Int("dim", cfg.Dim),
		slog.Int("m", cfg.M),
		slog.Int("ef_construction", cfg.EfConstruction),
		slog.String("metric", cfg.Metric.String()),
	)

	metric, err := hnsw.BuiltinMetric(cfg.Metric)
	if err != nil {
		return err
	}
	idx, err := hnsw.NewIndex("hnswdemo", metric, cfg.Metric, cfg.Dim, cfg.M, cfg.EfConstruction)
	if err != nil {
		return fmt.Errorf("new index: %w", err)
	}

	metrics := logger.NewOpMetrics(0)

	vectors, err := loadOrGenerateVectors(cfg.Dim)
	if err != nil {
		return err
	}

	for name, vec := range vectors {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		start := time.Now()
		if err := idx.Add(name, vec, nil); err != nil {
			return fmt.Errorf("add %q: %w", name, err)
		}
		metrics.Record(logger.OpAdd, time.Since(start))
	}
	log.Info("index built", slog.Int("node_count", idx.Len()))

	queries := sampleQueries(vectors, 3)
	for _, q := range queries {
		start := time.Now()
		results, err := idx.SearchKNN(q, 5)
		metrics.Record(logger.OpSearch, time.Since(start))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		fmt.Fprintf(os.Stderr, "query results:\n")
		for _, r := range results {
			fmt.Fprintf(os.Stderr, "  %-16s sim=%.4f\n", r.Name, r.Sim)
		}
	}

	for op, sum := range metrics.ByOperation() {
		log.Info("performance summary",
			slog.String("operation", op),
			slog.Int("count", sum.Count),
			slog.Float64("p50_ms", sum.P50Ms),
			slog.Float64("p95_ms", sum.P95Ms),
		)
	}

	if cfg.DumpPath != "" {
		if err := roundTrip(idx, cfg.DumpPath, log); err != nil {
			return err
		}
	}

	return nil
}

// roundTrip flattens idx to a binary dump at path, reloads it, and logs
// the original and reconstituted node counts, demonstrating the reconstitution surface
// a host-driven persistence backend would rely on.
func roundTrip(idx *hnsw.Index, path string, log *slog.Logger) error {
	data, err := idx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}

	loaded, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	rebuilt, err := hnsw.UnmarshalBinaryToIndex(loaded)
	if err != nil {
		return fmt.Errorf("reconstitute: %w", err)
	}

	log.Info("round-trip complete",
		slog.String("path", path),
		slog.Int("original_count", idx.Len()),
		slog.Int("reconstituted_count", rebuilt.Len()),
	)
	return nil
}

// loadOrGenerateVectors reads newline-delimited, comma-separated vectors
// from HNSWCORE_VECTOR_FILE if set, otherwise synthesizes 200 random ones.
func loadOrGenerateVectors(dim int) (map[string][]float32, error) {
	if path := os.Getenv("HNSWCORE_VECTOR_FILE"); path != "" {
		return readVectorFile(path, dim)
	}
	return generateSyntheticVectors(dim, 200), nil
}

func readVectorFile(path string, dim int) (map[string][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector file: %w", err)
	}
	defer f.Close()

	vectors := make(map[string][]float32)
	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		vec := make([]float32, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, fmt.Errorf("parse vector file line %d: %w", i, err)
			}
			vec = append(vec, float32(v))
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("vector file line %d: expected dim %d, got %d", i, dim, len(vec))
		}
		vectors[fmt.Sprintf("file.vec%d", i)] = vec
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vector file: %w", err)
	}
	return vectors, nil
}

func generateSyntheticVectors(dim, n int) map[string][]float32 {
	rng := rand.New(rand.NewSource(42))
	vectors := make(map[string][]float32, n)
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = rng.Float32() * 100
		}
		vectors[fmt.Sprintf("synthetic.vec%d", i)] = vec
	}
	return vectors
}

func sampleQueries(vectors map[string][]float32, n int) [][]float32 {
	out := make([][]float32, 0, n)
	i := 0
	for _, vec := range vectors {
		if i >= n {
			break
		}
		out = append(out, vec)
		i++
	}
	return out
}
