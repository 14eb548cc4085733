package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	var buf bytes.Buffer
	Init(WithWriter(&buf), WithLevel(slog.LevelDebug))

	l := Get()
	if l == nil {
		t.Fatal("logger is nil after initialization")
	}

	ctx := context.Background()
	l.Info(ctx, "hello", String("k", "v"), Int("n", 3))

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Fatalf("missing source annotation: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(WithWriter(&buf), WithLevel(slog.LevelWarn))

	ctx := context.Background()
	Get().Debug(ctx, "quiet")
	Get().Warn(ctx, "loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("debug record leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	Init(WithWriter(&buf))

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(context.Background(), "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug record missing after level change: %q", buf.String())
	}

	if err := SetLevelString("nope"); err == nil {
		t.Fatal("expected error for unknown level name")
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	Init(WithWriter(&buf))

	Named("store").Info(context.Background(), "resolved", String("vertical", "Beauty"))
	if !strings.Contains(buf.String(), "store.vertical=Beauty") {
		t.Fatalf("named group missing from output: %q", buf.String())
	}
}
