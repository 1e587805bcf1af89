package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// Buffer retains the most recent log entries in a fixed-size ring so a host
// can inspect what the index was doing without scraping its log output.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
	next    int
	full    bool
}

const defaultBufferSize = 1000

// NewBuffer creates a buffer retaining at most size entries.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Buffer{
		entries: make([]Entry, 0, size),
		cap:     size,
	}
}

// Add appends an entry, evicting the oldest once the buffer is full.
func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		b.entries = append(b.entries, e)
		if len(b.entries) == b.cap {
			b.full = true
		}
		return
	}
	b.entries[b.next] = e
	b.next = (b.next + 1) % b.cap
}

// snapshot returns the retained entries oldest-first. Caller holds b.mu.
func (b *Buffer) snapshot() []Entry {
	out := make([]Entry, 0, len(b.entries))
	if b.full {
		out = append(out, b.entries[b.next:]...)
		out = append(out, b.entries[:b.next]...)
	} else {
		out = append(out, b.entries...)
	}
	return out
}

// Query returns the retained entries matching f, newest first.
func (b *Buffer) Query(f Filter) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var results []Entry
	for _, e := range b.snapshot() {
		if f.Matches(e) {
			results = append(results, e)
		}
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results
}

// Clear drops all retained entries.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = b.entries[:0]
	b.next = 0
	b.full = false
}

// Size returns the number of retained entries.
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Filter selects entries out of a Buffer.
type Filter struct {
	Level     string    // minimum level (debug, info, warn, error)
	Since     time.Time // only entries at or after this time
	Until     time.Time // only entries at or before this time
	Keyword   string    // case-insensitive substring of message or any attribute
	Limit     int       // maximum number of results, 0 for all
	Index     string    // exact match on the index attribute
	Operation string    // exact match on the operation attribute
	Node      string    // exact match on the node attribute
}

// Matches reports whether e satisfies every criterion of f.
func (f Filter) Matches(e Entry) bool {
	if f.Level != "" && levelRank(e.Level) < levelRank(f.Level) {
		return false
	}

	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Time.After(f.Until) {
		return false
	}

	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		found := strings.Contains(strings.ToLower(e.Message), kw)
		for _, v := range e.Attrs {
			if found {
				break
			}
			found = strings.Contains(strings.ToLower(v), kw)
		}
		if !found {
			return false
		}
	}

	if f.Index != "" && e.Attrs[string(IndexKey)] != f.Index {
		return false
	}
	if f.Operation != "" && e.Attrs[string(OperationKey)] != f.Operation {
		return false
	}
	if f.Node != "" && e.Attrs[string(NodeKey)] != f.Node {
		return false
	}

	return true
}

func levelRank(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return 0
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// TeeHandler forwards records to a wrapped slog.Handler while also capturing
// them into a Buffer.
type TeeHandler struct {
	handler slog.Handler
	buffer  *Buffer
}

// NewTeeHandler wraps handler so every record it sees also lands in buffer.
func NewTeeHandler(handler slog.Handler, buffer *Buffer) *TeeHandler {
	return &TeeHandler{handler: handler, buffer: buffer}
}

// Enabled implements slog.Handler.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	e := Entry{
		Time:    record.Time,
		Level:   record.Level.String(),
		Message: record.Message,
		Attrs:   make(map[string]string, record.NumAttrs()),
	}
	record.Attrs(func(attr slog.Attr) bool {
		e.Attrs[attr.Key] = attr.Value.String()
		return true
	})
	h.buffer.Add(e)

	return h.handler.Handle(ctx, record)
}

// WithAttrs implements slog.Handler.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TeeHandler{handler: h.handler.WithAttrs(attrs), buffer: h.buffer}
}

// WithGroup implements slog.Handler.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	return &TeeHandler{handler: h.handler.WithGroup(name), buffer: h.buffer}
}

var packageBuffer *Buffer

// InitWithBuffer installs the package logger with a capture buffer of the
// given size teed onto cfg's handler, and returns that buffer.
func InitWithBuffer(cfg *Config, size int) *Buffer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	packageBuffer = NewBuffer(size)
	defaultLogger = slog.New(NewTeeHandler(newHandler(cfg), packageBuffer))
	slog.SetDefault(defaultLogger)

	return packageBuffer
}

// GetBuffer returns the buffer installed by InitWithBuffer, or nil.
func GetBuffer() *Buffer {
	return packageBuffer
}
