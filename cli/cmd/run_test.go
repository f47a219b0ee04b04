package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/pkg"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		stdin   string
		args    []string
		define  []string
		want    string
		wantErr func(error) bool
	}{
		{
			name:   "hello",
			script: `print("hello")`,
			want:   "hello\n",
		},
		{
			name:   "args",
			script: `for (var i = 0; i < length(args); i++) { print(args[i]) }`,
			args:   []string{"a", "b"},
			want:   "a\nb\n",
		},
		{
			name:   "define",
			script: `print(greeting)`,
			define: []string{`greeting="hi" + "!"`},
			want:   "hi!\n",
		},
		{
			name:   "runtime error",
			script: `print(1) missing()`,
			want:   "1\n",
			wantErr: func(err error) bool {
				var e *lang.Error

				return errors.As(err, &e)
			},
		},
		{
			name:   "exit",
			script: `print("bye") exit(7) print("unreachable")`,
			want:   "bye\n",
			wantErr: func(err error) bool {
				var exit *lang.ExitError

				return errors.As(err, &exit) && exit.Code == 7
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStreams(t.Context(), Streams{
				In:  strings.NewReader(tt.script),
				Out: &out,
			})
			ctx = WithPrelude(ctx, Prelude{Define: tt.define})

			err := (&Run{Script: stdinSource, Args: tt.args}).Run(ctx)

			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr != nil && !tt.wantErr(err):
				t.Fatalf("unexpected error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRun_ScriptFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "input.maws", `print(input("name? "))`)

	var out bytes.Buffer

	ctx := WithStreams(t.Context(), Streams{In: strings.NewReader("maw\n"), Out: &out})

	if err := (&Run{Script: path}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := out.String(), "name? maw\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer

	if err := (&Version{}).Run(WithStreams(t.Context(), Streams{Out: &out})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := pkg.Name + " " + pkg.Version + "\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}
