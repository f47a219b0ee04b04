package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/findof1/maw/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "reset", "quit"}

// isWordBoundary reports whether r ends a completion word. Maw identifiers
// consist of letters only, so any operator or punctuation character is a
// boundary.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		',', ':', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets in
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word at
// wordStart. For "x + cfg.log.le" with the word "le" it returns "cfg.log";
// for a top-level word it returns "".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// resolvePath evaluates a dotted member chain such as "cfg.log.level"
// against env. It reports false if the root is unbound.
func resolvePath(env *lang.Environment, path string) (lang.Value, bool) {
	if env == nil || path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")

	val, err := env.Lookup(segments[0])
	if err != nil {
		return nil, false
	}

	for _, seg := range segments[1:] {
		if val, err = lang.Member(val, lang.String(seg)); err != nil {
			return nil, false
		}
	}

	return val, true
}

// childCandidates returns the completions valid after parent. At the top
// level these are all visible bindings and the keywords; after a member
// access they are the keys of the resolved object.
func childCandidates(env *lang.Environment, parent string) []string {
	if parent == "" {
		var names []string

		if env != nil {
			names = env.Visible()
		}

		return append(names, lang.Keywords()...)
	}

	val, ok := resolvePath(env, parent)
	if !ok {
		return nil
	}

	if obj, ok := val.(*lang.Object); ok {
		return obj.Keys()
	}

	return nil
}

// isFunction reports whether path resolves to a callable in env.
func isFunction(env *lang.Environment, path string) bool {
	val, ok := resolvePath(env, path)
	if !ok {
		return false
	}

	switch val.(type) {
	case *lang.Function, *lang.NativeFunction:
		return true
	}

	return false
}

// isIdentifierWord reports whether word could begin an identifier.
func isIdentifierWord(word string) bool {
	return word != "" && !strings.ContainsFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word yields no matches at the top level and every member after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, ctrlCommands), ctrlCommands, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)
	candidates = childCandidates(m.env, parent)

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	if !isIdentifierWord(word) {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// width. The selected candidate is highlighted while tab-cycling. isFunc
// marks callables with a "()" suffix.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(
	match fuzzy.Match,
	selected bool,
	isFunc func(string) bool,
) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunc != nil && isFunc(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// previewLimit is the rune length beyond which previews are truncated.
const previewLimit = 40

// formatPreview renders a short description of a binding's value.
func formatPreview(v lang.Value) string {
	switch val := v.(type) {
	case *lang.Function:
		return val.Signature()

	case *lang.NativeFunction:
		return val.Signature() + " (native)"

	case *lang.Object:
		return "{ " + pluralize(len(val.Properties), "key") + " }"

	case *lang.Array:
		return "[ " + pluralize(len(val.Elements), "element") + " ]"
	}

	s := []rune(lang.Quote(v))
	if len(s) > previewLimit {
		return string(s[:previewLimit-3]) + "..."
	}

	return string(s)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return lang.FormatNumber(float64(n)) + " " + noun + "s"
}
