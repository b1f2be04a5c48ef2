package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Component: ComponentLedger, Output: buf})
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, slog.LevelInfo)
	l.Info("loaded", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentStorage).Warn("slow")
	if !strings.Contains(buf.String(), "component=storage") {
		t.Fatalf("expected storage component: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger: %+v", l)
	}

	want := Discard()
	got := FromContext(NewContext(context.Background(), want))
	if got != want {
		t.Fatal("expected logger stored in context")
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, slog.LevelDebug))
	req := httptest.NewRequest("POST", "/api/expenses?x=1", nil)

	sl.LogHTTPEnd(context.Background(), req, "req-1", 503, 12, "10.0.0.1")
	out := buf.String()
	for _, want := range []string{"level=ERROR", "status_code=503", "request_id=req-1", "component=http"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}

	buf.Reset()
	sl.LogHTTPEnd(context.Background(), req, "req-2", 201, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=INFO") || !strings.Contains(buf.String(), "success=true") {
		t.Fatalf("unexpected completion log: %s", buf.String())
	}
}
