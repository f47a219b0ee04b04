package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/findof1/maw/lang"
)

// variadicSuffix marks a native parameter accepting any number of
// arguments, e.g. "elems...".
const variadicSuffix = "..."

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string // callee path, e.g. "cfg.greet"
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// counts the top-level commas of its argument list.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1
	depth := 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']', '}':
			depth++
		case '[', '{':
			depth--
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && !unicode.IsLetter(r) {
			break
		}

		start -= size
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the call form and parameter names of the function
// bound at path, or "" if path is not callable.
func getSignature(
	env *lang.Environment,
	path string,
) (signature string, params []string) {
	val, ok := resolvePath(env, path)
	if !ok {
		return "", nil
	}

	switch fn := val.(type) {
	case *lang.Function:
		params = fn.Parameters
	case *lang.NativeFunction:
		params = fn.Params
	default:
		return "", nil
	}

	return path + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders name(params) with the parameter at argIdx
// highlighted. A variadic parameter stays highlighted for every argument
// from its position on.
func renderSignatureHint(
	signature string,
	params []string,
	argIdx int,
) string {
	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasSuffix(param, variadicSuffix)

		if argIdx == i || variadic && argIdx > i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
