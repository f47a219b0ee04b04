package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func sources(scripts []script) []string {
	srcs := make([]string, len(scripts))
	for i, s := range scripts {
		srcs[i] = s.src
	}

	return srcs
}

func TestReadScripts(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.maws", "first")
	second := writeFile(t, dir, "second.maws", "second")

	link := filepath.Join(dir, "link.maws")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{first}, []string{"first"}},
		{"ordered", []string{second, first}, []string{"second", "first"}},
		{"duplicate paths", []string{first, first, first}, []string{"first"}},
		{"relative and absolute", []string{"first.maws", first}, []string{"first"}},
		{"symlink", []string{link, first}, []string{"first"}},
		{"stdin last", []string{"-", first, "-"}, []string{"first", "stdin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripts, err := readScripts(tt.paths, strings.NewReader("stdin"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := sources(scripts); !slices.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReadScripts_Missing(t *testing.T) {
	_, err := readScripts([]string{filepath.Join(t.TempDir(), "missing.maws")}, nil)
	if !errors.Is(err, ErrReadScript) {
		t.Errorf("expected ErrReadScript, got %v", err)
	}
}

func TestReadScript_Stdin(t *testing.T) {
	s, err := readScript(stdinSource, strings.NewReader("print(1)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.name != stdinSource || s.src != "print(1)" {
		t.Errorf("expected stdin script, got %+v", s)
	}
}
