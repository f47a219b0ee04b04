package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyHandler_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none"))

	logger.With(slog.String("component", "repl")).Trace("step",
		slog.Int("n", 3),
		slog.Float64("ratio", 0.5),
		slog.Bool("ok", true),
		slog.Duration("took", time.Second),
		slog.Any("error", errors.New("boom")),
		slog.Any("nothing", nil),
		slog.Group("pos", slog.Int("line", 2), slog.Int("column", 7)),
	)

	want := "TRACE step component=repl n=3 ratio=0.5 ok=true took=1s " +
		"error=boom nothing=null pos.line=2 pos.column=7\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyHandler_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelInfo), WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Warn("careful", slog.String("name", "x"))

	want := "{\n  level: WARN,\n  msg: careful,\n  name: x\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyHandler_Header(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("2006"), WithCaller(true))
	logger.Error("failed")

	output := buf.String()
	if !strings.HasPrefix(output, time.Now().Format("2006")+" ") {
		t.Errorf("expected year prefix, got %q", output)
	}

	if !strings.Contains(output, "pretty_test.go:") {
		t.Errorf("expected caller location, got %q", output)
	}

	if !strings.Contains(output, "ERROR failed") {
		t.Errorf("expected level and message, got %q", output)
	}
}

func TestPrettyHandler_Group(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, FormatText, makeConfig(nil, WithLevel(LevelInfo), WithTimeLayout("none")).handlerOptions())
	logger := slog.New(h.WithGroup("eval").WithAttrs([]slog.Attr{slog.String("file", "a.maws")}))

	logger.Info("done", slog.Int("steps", 4))

	want := "INFO  done eval.file=a.maws eval.steps=4\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
