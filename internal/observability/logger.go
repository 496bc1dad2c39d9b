// Package observability defines shared logging primitives.
package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Logger captures structured logging behaviours shared across layers.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a key/value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}

// writerLogger emits one JSON document per line.
type writerLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New returns a logger writing JSON lines to w.
func New(w io.Writer) Logger {
	return &writerLogger{w: w, now: time.Now}
}

// NewFile opens (or creates) the log file at path, creating parent
// directories as needed, and returns a logger writing to it. The caller owns
// the returned closer.
func NewFile(path string) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f), f, nil
}

func (l *writerLogger) Debug(msg string, fields ...Field) { l.emit("debug", msg, fields) }
func (l *writerLogger) Info(msg string, fields ...Field)  { l.emit("info", msg, fields) }
func (l *writerLogger) Error(msg string, fields ...Field) { l.emit("error", msg, fields) }

func (l *writerLogger) emit(level, msg string, fields []Field) {
	entry := make(map[string]any, len(fields)+3)
	entry["ts"] = l.now().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		entry[f.Key] = f.Value
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(line, '\n'))
}
