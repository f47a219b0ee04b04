package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/findof1/maw/lang"
)

// initCLI mirrors the kinds of flags the maw CLI exposes.
type initCLI struct {
	LogLevel  string   `name:"log-level" default:"warn"`
	LogPretty bool     `name:"log-pretty" default:"true"`
	Timeout   int      `name:"timeout"   default:"30"`
	Offset    int      `name:"offset"    default:"-4"`
	Preload   []string `name:"preload"`
	Secret    string   `name:"secret"    hidden:""`
	PprofMode string   `name:"pprof-mode"`
}

func initContext(t *testing.T, path string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

// loadConfig evaluates a generated configuration script and returns its
// settings object.
func loadConfig(t *testing.T, path string) map[string]any {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	rt := lang.NewRuntime()

	env, err := rt.NewGlobalEnv()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := rt.RunIn(t.Context(), string(content), env); err != nil {
		t.Fatalf("generated config does not run: %v\n%s", err, content)
	}

	v, err := env.Lookup(ConfigBinding)
	if err != nil {
		t.Fatal(err)
	}

	m, ok := lang.ToNative(v).(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %s", lang.Display(v))
	}

	return m
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create new config", false, false, nil},
		{"overwrite existing with force", true, true, nil},
		{"fail without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.maws")

			if tt.exists {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, path))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, ok := loadConfig(t, path)["logLevel"]; !ok {
				t.Error("expected logLevel in generated config")
			}
		})
	}
}

func TestInit_Content(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.maws")
	ctx := initContext(t, path, "--log-level=debug", "--preload=a.maws", "--preload=b.maws")

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"logLevel":  "debug",
		"logPretty": true,
		"timeout":   30.0,
		"offset":    "-4",
		"preload":   []any{"a.maws", "b.maws"},
	}

	if diff := cmp.Diff(want, loadConfig(t, path)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(content), "// maw configuration") {
		t.Errorf("expected header comment, got %q", content)
	}
}

func TestInit_InvalidPath(t *testing.T) {
	ctx := initContext(t, filepath.Join(t.TempDir(), "missing", "config.maws"))

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("expected ErrWriteConfig, got %v", err)
	}
}

func TestConfigKey(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"preload", "preload"},
		{"log-level", "logLevel"},
		{"log-time-layout", "logTimeLayout"},
		{"log_caller", "logCaller"},
		{"-leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := ConfigKey(tt.flag); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  lang.Expr
	}{
		{"nil", nil, nil},
		{"true", true, &lang.Identifier{Name: "true"}},
		{"string", "text", &lang.StringLiteral{Value: "text"}},
		{"empty string", "", nil},
		{"both quotes", `a"b'c`, nil},
		{"integer", 42, &lang.NumericLiteral{Value: 42}},
		{"negative", -1, &lang.StringLiteral{Value: "-1"}},
		{"fraction", 1.5, &lang.StringLiteral{Value: "1.5"}},
		{"empty slice", []string{}, nil},
		{"slice", []string{"a", ""}, &lang.ArrayLiteral{
			Elements: []lang.Expr{&lang.StringLiteral{Value: "a"}},
		}},
		{"stringer", time30s{}, &lang.StringLiteral{Value: "30s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, literal(tt.value)); diff != "" {
				t.Errorf("literal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type time30s struct{}

func (time30s) String() string { return "30s" }
