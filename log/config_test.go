package log

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelTrace + 1, "trace+1"},
		{LevelTrace - 2, "trace-2"},
		{LevelInfo + 2, "info+2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", LevelDebug + 2},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" text\n", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevelsFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("expected %v, got %v", want, levels)
	}

	formats := slices.Collect(Formats())
	if want := []string{"text", "json"}; !slices.Equal(formats, want) {
		t.Errorf("expected %v, got %v", want, formats)
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("expected %q, got %q", "Format(9)", got)
	}
}

func TestConfig_Options(t *testing.T) {
	var buf bytes.Buffer

	c := makeConfig(nil,
		WithOutput(&buf),
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.output != &buf {
		t.Error("expected output to be the buffer")
	}

	if c.level != LevelDebug {
		t.Errorf("expected level %v, got %v", LevelDebug, c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("expected format %v, got %v", FormatJSON, c.format)
	}

	if !c.caller || c.pretty {
		t.Errorf("expected caller and no pretty, got caller=%v pretty=%v", c.caller, c.pretty)
	}

	if d := makeConfig(nil, WithOutput(nil)); d.output != io.Discard {
		t.Error("expected nil output to discard")
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.level != DefaultLevel || c.format != DefaultFormat || c.caller || !c.pretty {
		t.Errorf("unexpected defaults: %+v", c)
	}

	if c.output != io.Discard {
		t.Error("expected nil writer to discard")
	}
}

func TestConfig_FormatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"millis", "ms", "Oct 15 14:30:45.123"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := makeConfig(nil, WithTimeLayout(tt.layout))

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfig_Handler(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		expect string
	}{
		{"text", []Option{WithFormat(FormatText), WithPretty(false)}, "level=INFO msg=hello"},
		{"json", []Option{WithFormat(FormatJSON), WithPretty(false)}, `"level":"INFO","msg":"hello"`},
		{"pretty text", []Option{WithFormat(FormatText)}, "INFO  hello"},
		{"pretty json", []Option{WithFormat(FormatJSON)}, "  msg: hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			opts := append([]Option{WithLevel(LevelInfo), WithTimeLayout("none")}, tt.opts...)
			Make(&buf, opts...).Info("hello")

			if !strings.Contains(buf.String(), tt.expect) {
				t.Errorf("expected output containing %q, got %q", tt.expect, buf.String())
			}
		})
	}
}

func BenchmarkConfig_FormatTime(b *testing.B) {
	c := makeConfig(nil, WithTimeLayout("RFC3339Nano"))
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
