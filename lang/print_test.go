package lang

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProgram_Print(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "Program\n",
		},
		{
			name:  "declaration and call",
			input: `var x = 1 + 2 print("hi")`,
			want: `Program
  VarDeclaration: x
    BinaryExpr: +
      NumericLiteral: 1
      NumericLiteral: 2
  CallExpr
    Callee
      Identifier: print
    Arguments
      StringLiteral: "hi"
`,
		},
		{
			name:  "object literal",
			input: `const o = { a: 1, b, c: [] }`,
			want: `Program
  VarDeclaration: o (const)
    ObjectLiteral
      Property: a
        NumericLiteral: 1
      Property: b (shorthand)
      Property: c
        ArrayLiteral
          (empty)
`,
		},
		{
			name:  "control flow",
			input: `funct f(a) { if (a) { return a } else {} }`,
			want: `Program
  FunctionDeclaration: f(a)
    Body
      IfStatement
        Condition
          Identifier: a
        Then
          ReturnStatement
            Identifier: a
        Else
          (empty)
`,
		},
		{
			name:  "member access",
			input: `o.k[0] = 'q'`,
			want: `Program
  AssignmentExpr
    Target
      MemberExpr: computed
        MemberExpr
          Identifier: o
          Identifier: k
        NumericLiteral: 0
    Value
      StringLiteral: "q"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := MustParse(tt.input).Print(t.Context(), &buf); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestProgram_PrintError(t *testing.T) {
	err := MustParse("var x = 1").Print(t.Context(), failWriter{})
	if err == nil || err.Error() != "closed" {
		t.Errorf("expected write error, got %v", err)
	}
}
