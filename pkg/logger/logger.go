// Package logger is a thin structured-logging facade over log/slog.
//
// Library packages receive a Logger through their functional options and
// fall back to the process-wide logger from Get, which initializes itself
// with defaults (text to stderr, info level) on first use.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Logger is the logging surface used across the module. Methods are
// context-first so handlers can pull request-scoped values.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// Named returns a child logger whose fields are grouped under name.
	Named(name string) Logger
}

// Field is a key-value pair attached to a log record.
type Field struct {
	Key   string
	Value any
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val any) Field                { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelDebug, msg, fields)
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelInfo, msg, fields)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelWarn, msg, fields)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
}

func (s *slogLogger) Named(name string) Logger {
	return &slogLogger{l: s.l.WithGroup(name)}
}

func (s *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	// Skip caller -> log -> leveled method to reach the call site.
	attrs = append(attrs, slog.String("source", caller(3)))
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

// caller reports a call site as dir/file.go:line.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown:0"
	}
	short := filepath.Base(file)
	if dir := filepath.Base(filepath.Dir(file)); dir != "." && dir != string(filepath.Separator) {
		short = dir + "/" + short
	}
	return fmt.Sprintf("%s:%d", short, line)
}

var (
	mu       sync.Mutex
	global   Logger
	levelVar slog.LevelVar
)

// Init configures the process-wide logger. Calling it again replaces the
// previous configuration.
func Init(opts ...Option) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	mu.Lock()
	global = build(cfg)
	mu.Unlock()
}

// Get returns the process-wide logger, initializing defaults on first use.
func Get() Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = build(defaultOptions())
	}
	return global
}

// Named returns a child of the process-wide logger.
func Named(name string) Logger {
	return Get().Named(name)
}

func build(cfg options) Logger {
	levelVar.Set(cfg.level)
	h := slog.NewTextHandler(cfg.out, &slog.HandlerOptions{Level: &levelVar})
	return &slogLogger{l: slog.New(h)}
}

func defaultOptions() options {
	return options{out: os.Stderr, level: slog.LevelInfo}
}

// SetLevel updates the level of the process-wide handler.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and applies a level name. Accepts debug, info,
// warn/warning, error (case-insensitive); empty means info.
func SetLevelString(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetLevel(parsed)
	return nil
}

// ParseLevel converts a level name to its slog value.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", level)
	}
}
