package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/findof1/maw/lang"
)

type runner interface {
	Run(ctx context.Context) error
}

func TestFmt(t *testing.T) {
	const src = `var x = 1 + 2 funct f(a) { return a }`

	tests := []struct {
		name     string
		cmd      func(source string) runner
		contains string
	}{
		{"native", func(s string) runner {
			return &Native{Indent: 2, Input: Input{Source: s}}
		}, "var x = 1 + 2;\nfunct f(a) {\n  return a;\n}\n"},
		{"native compact", func(s string) runner {
			return &Native{Input: Input{Source: s}}
		}, "var x = 1 + 2; funct f(a) { return a; }\n"},
		{"json", func(s string) runner {
			return &JSON{Indent: 2, Input: Input{Source: s}}
		}, `"kind": "FunctionDeclaration"`},
		{"yaml", func(s string) runner {
			return &YAML{Indent: 2, Input: Input{Source: s}}
		}, "kind: VarDeclaration"},
		{"ast", func(s string) runner {
			return &AST{Input: Input{Source: s}}
		}, "  FunctionDeclaration: f(a)\n"},
	}

	for _, tt := range tests {
		for _, fromFile := range []bool{false, true} {
			name := tt.name + " stdin"
			source := stdinSource

			if fromFile {
				name = tt.name + " file"
				source = writeFile(t, t.TempDir(), "in.maws", src)
			}

			t.Run(name, func(t *testing.T) {
				var out bytes.Buffer

				ctx := WithStreams(t.Context(), Streams{
					In:  strings.NewReader(src),
					Out: &out,
				})

				if err := tt.cmd(source).Run(ctx); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if !strings.Contains(out.String(), tt.contains) {
					t.Errorf("expected output containing %q, got %q", tt.contains, out.String())
				}
			})
		}
	}
}

func TestFmt_NativeRoundTrip(t *testing.T) {
	const src = `const o = { a: [1, 'two'], b } while (o.a[0] < 3) { o.a[0]++ }`

	var out bytes.Buffer

	ctx := WithStreams(t.Context(), Streams{In: strings.NewReader(src), Out: &out})

	if err := (&Native{Indent: 4, Input: Input{Source: stdinSource}}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := lang.ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	got, err := lang.ParseString(t.Context(), out.String())
	if err != nil {
		t.Fatalf("formatted output does not parse: %v\n%s", err, out.String())
	}

	if want.String() != got.String() {
		t.Errorf("round trip mismatch:\n%s", cmp.Diff(want.String(), got.String()))
	}
}

func TestFmt_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
		check  func(error) bool
	}{
		{"syntax error", stdinSource, "var = 1", func(err error) bool {
			var e *lang.Error

			return errors.As(err, &e)
		}},
		{"missing file", filepath.Join(t.TempDir(), "missing.maws"), "", func(err error) bool {
			return errors.Is(err, ErrReadScript)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStreams(t.Context(), Streams{
				In:  strings.NewReader(tt.input),
				Out: &bytes.Buffer{},
			})

			err := (&Native{Indent: 2, Input: Input{Source: tt.source}}).Run(ctx)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
