package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/findof1/maw/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_brace", "{ key: fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected (%q, %d, %d), got (%q, %d, %d)",
					tt.wantWord, tt.wantStart, tt.wantEnd, word, start, end)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"no_dot_before_word", "a + fo", 4, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	env := testEnv(t)

	top := childCandidates(env, "")
	for _, want := range []string{"greeting", "add", "nested", "print", "funct", "while"} {
		if !slices.Contains(top, want) {
			t.Errorf("expected top-level candidates to contain %q", want)
		}
	}

	tests := []struct {
		parent string
		want   []string
	}{
		{"nested", []string{"depth", "multiply"}},
		{"nested.depth", []string{"level"}},
		{"nested.depth.level", nil},
		{"greeting", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			if got := childCandidates(env, tt.parent); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsFunction(t *testing.T) {
	env := testEnv(t)

	tests := []struct {
		path string
		want bool
	}{
		{"add", true},
		{"print", true},
		{"nested.multiply", true},
		{"greeting", false},
		{"nested.depth", false},
		{"missing", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isFunction(env, tt.path); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestModel_ComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // first match, "" for none
	}{
		{"top level", modeEval, "gree", "greeting"},
		{"member", modeEval, "nested.mul", "multiply"},
		{"member browse", modeEval, "nested.", "depth"},
		{"empty top level", modeEval, "", ""},
		{"number", modeEval, "12", ""},
		{"command", modeCtrl, "res", "reset"},
		{"empty command", modeCtrl, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			var got string
			if len(matches) > 0 {
				got = matches[0].Str
			}

			if got != tt.want {
				t.Errorf("expected first match %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{{Str: "add"}, {Str: "greeting"}, {Str: "nested"}}
	isFunc := func(name string) bool { return name == "add" }

	got := renderCandidateBar(matches, -1, false, 80, isFunc)
	if !strings.Contains(got, "add()") || !strings.Contains(got, "nested") {
		t.Errorf("expected all candidates, got %q", got)
	}

	narrow := renderCandidateBar(matches, -1, false, 12, isFunc)
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("expected ellipsis, got %q", narrow)
	}

	if got := renderCandidateBar(nil, 0, false, 80, isFunc); got != "" {
		t.Errorf("expected empty bar, got %q", got)
	}
}

func TestFormatPreview(t *testing.T) {
	env := testEnv(t)

	lookup := func(name string) lang.Value {
		v, err := env.Lookup(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		return v
	}

	tests := []struct {
		name  string
		value lang.Value
		want  string
	}{
		{"string", lookup("greeting"), `"hello"`},
		{"function", lookup("add"), "add(x, y)"},
		{"native", lookup("pow"), "pow(x, y) (native)"},
		{"object", lookup("nested"), "{ 2 keys }"},
		{"array", lang.NewArray(lang.Number(1)), "[ 1 element ]"},
		{"number", lang.Number(2.5), "2.5"},
		{"long", lang.String(strings.Repeat("x", 60)), `"` + strings.Repeat("x", 36) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPreview(tt.value); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
