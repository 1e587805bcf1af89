// Package logger provides the structured logging and operation-latency
// instrumentation used by hosts embedding the hnsw index. The core package
// itself never logs; everything here is host-side glue.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextKey is the type for context keys carrying log attributes.
type ContextKey string

const (
	// IndexKey is the context key for the index name.
	IndexKey ContextKey = "index"
	// OperationKey is the context key for the index operation (add, delete, search).
	OperationKey ContextKey = "operation"
	// NodeKey is the context key for the node name an operation targets.
	NodeKey ContextKey = "node"
)

var defaultLogger *slog.Logger

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level.
	Level slog.Level

	// Format is the output format, "json" or "text".
	Format string

	// Output is where logs are written. Defaults to stderr.
	Output io.Writer

	// AddSource adds source file and line to each record.
	AddSource bool
}

// DefaultConfig returns the default logger configuration: info-level JSON
// to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  slog.LevelInfo,
		Format: "json",
		Output: os.Stderr,
	}
}

// newHandler builds the slog handler described by cfg.
func newHandler(cfg *Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	if cfg.Format == "text" {
		return slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.NewJSONHandler(cfg.Output, opts)
}

// Init installs the package logger built from cfg, also making it the
// process-wide slog default.
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	defaultLogger = slog.New(newHandler(cfg))
	slog.SetDefault(defaultLogger)
}

// Get returns the package logger, initializing it with defaults on first use.
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init(DefaultConfig())
	}
	return defaultLogger
}

// ParseLevel maps a level name to its slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns the package logger with any index, operation, and
// node attributes found in ctx attached.
func WithContext(ctx context.Context) *slog.Logger {
	log := Get()

	attrs := make([]any, 0, 6)
	for _, key := range []ContextKey{IndexKey, OperationKey, NodeKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, string(key), v)
		}
	}
	if len(attrs) > 0 {
		log = log.With(attrs...)
	}
	return log
}

// Debug logs a debug message on the package logger.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs an info message on the package logger.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs a warning on the package logger.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs an error on the package logger.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// With returns the package logger with the given attributes attached.
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
