package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve_Values(t *testing.T) {
	src := `
const base = 40
const config = {
  logLevel: "debug",
  retries: base + 2,
  ratio: 1 / 2,
  pretty: false,
  tags: ["a", "b", 3],
}
`

	res, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	expected := config{
		"logLevel": "debug",
		"retries":  "42",
		"ratio":    "0.5",
		"pretty":   false,
		"tags":     []any{"a", "b", "3"},
	}

	if diff := cmp.Diff(expected, res); diff != "" {
		t.Errorf("resolved config mismatch (-expected +got):\n%s", diff)
	}
}

func TestResolve_Ignored(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ``},
		{"parse error", `const config = {`},
		{"runtime error", `const config = { a: missing }`},
		{"unbound", `const other = { logLevel: "debug" }`},
		{"not an object", `const config = "debug"`},
		{"exit", `exit(3)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolve(t.Context())(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if cfg, ok := res.(config); !ok || len(cfg) != 0 {
				t.Errorf("expected empty config, got %#v", res)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := config{
		"log-level":  "info",
		"log_format": "json",
		"timeLayout": "Kitchen",
	}

	tests := []struct {
		flag     string
		expected any
	}{
		{"log-level", "info"},
		{"log-format", "json"},
		{"time-layout", "Kitchen"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := cfg.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestResolve_Kong(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseConfig)

	src := `const config = { logLevel: "error", retries: 3, tags: ["x", "y"], verbose: true }`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	var flags struct {
		LogLevel string
		Retries  int
		Tags     []string
		Verbose  bool
	}

	parser, err := kong.New(&flags,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve(t.Context()), path),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--retries=5"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if flags.LogLevel != "error" {
		t.Errorf("expected log level %q, got %q", "error", flags.LogLevel)
	}

	if flags.Retries != 5 {
		t.Errorf("expected command line to override retries, got %d", flags.Retries)
	}

	if diff := cmp.Diff([]string{"x", "y"}, flags.Tags); diff != "" {
		t.Errorf("tags mismatch (-expected +got):\n%s", diff)
	}

	if !flags.Verbose {
		t.Error("expected verbose to be set")
	}
}
