//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("expected sorted modes, got %v", modes)
	}

	for _, want := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("expected %q in %v", want, modes)
		}
	}
}

func TestProfiler_StartCPU(t *testing.T) {
	dir := t.TempDir()

	Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("expected cpu profile in %s: %v", dir, err)
	}
}
