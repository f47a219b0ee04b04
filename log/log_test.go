package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(Make(&buf, WithLevel(tt.minLevel)), "test message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("expected logged=%v, got output %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	type key struct{}

	tests := []struct {
		name    string
		logFunc func(Logger, context.Context, string, ...slog.Attr)
		level   string
	}{
		{"trace", Logger.TraceContext, "TRACE"},
		{"debug", Logger.DebugContext, "DEBUG"},
		{"info", Logger.InfoContext, "INFO"},
		{"warn", Logger.WarnContext, "WARN"},
		{"error", Logger.ErrorContext, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))
			ctx := context.WithValue(t.Context(), key{}, "value")

			tt.logFunc(logger, ctx, "test message", slog.Int("n", 1))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}

			if entry["level"] != tt.level {
				t.Errorf("expected level %q, got %v", tt.level, entry["level"])
			}

			if entry["msg"] != "test message" || entry["n"] != 1.0 {
				t.Errorf("unexpected entry: %v", entry)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelInfo))
	logger.With(slog.String("key", "value")).Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if entry["key"] != "value" {
		t.Errorf("expected key=value, got %v", entry["key"])
	}

	buf.Reset()
	logger.Info("plain")

	if strings.Contains(buf.String(), "key") {
		t.Errorf("expected parent logger unchanged, got %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Info("hidden")
	wrapped.Debug("shown")

	if first.Len() != 0 {
		t.Errorf("expected base logger to stay at error, got %q", first.String())
	}

	if !strings.Contains(second.String(), "shown") {
		t.Errorf("expected wrapped output, got %q", second.String())
	}

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("expected levels error/debug, got %v/%v", base.Level(), wrapped.Level())
	}

	if wrapped.Format() != DefaultFormat {
		t.Errorf("expected format %v, got %v", DefaultFormat, wrapped.Format())
	}
}

func TestLogger_Caller(t *testing.T) {
	tests := []struct {
		name   string
		caller bool
	}{
		{"enabled", true},
		{"disabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithCaller(tt.caller), WithFormat(FormatJSON),
				WithPretty(false), WithLevel(LevelInfo))
			logger.Info("test message")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}

			src, ok := entry["source"].(map[string]any)
			if ok != tt.caller {
				t.Fatalf("expected source=%v, got %v", tt.caller, entry["source"])
			}

			if ok && !strings.HasSuffix(src["file"].(string), "log_test.go") {
				t.Errorf("expected caller in log_test.go, got %v", src["file"])
			}
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	logger := Make(nil, WithLevel(LevelInfo))

	if logger.Enabled(t.Context(), LevelDebug) {
		t.Error("expected debug disabled")
	}

	if !logger.Enabled(t.Context(), LevelWarn) {
		t.Error("expected warn enabled")
	}

	var zero Logger
	if zero.Enabled(t.Context(), LevelError) {
		t.Error("expected zero logger disabled")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.TraceContext(t.Context(), "test")
	l.Debug("test")
	l.Info("test")
	l.WarnContext(t.Context(), "test")
	l.Error("test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("expected defaults, got %v/%v", l.Level(), l.Format())
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithLevel(LevelInfo)).Info("revived")

	if !strings.Contains(buf.String(), "revived") {
		t.Errorf("expected wrapped zero logger to log, got %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithLevel(LevelInfo))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent message", slog.Int("id", i))
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelInfo))

	for b.Loop() {
		buf.Reset()
		logger.Info("benchmark message", slog.Int("n", 1))
	}
}

func BenchmarkLogger_Disabled(b *testing.B) {
	logger := Make(nil, WithLevel(LevelError))

	for b.Loop() {
		logger.Trace("benchmark message", slog.Int("n", 1))
	}
}
