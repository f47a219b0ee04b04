package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tok struct {
	Kind TokenKind
	Text string
}

func kinds(tokens []Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{t.Kind, t.Text}
	}

	return out
}

func TestTokenize(t *testing.T) {
	eof := tok{TokenEOF, "EndOfFile"}

	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "empty",
			input: "",
			want:  []tok{eof},
		},
		{
			name:  "declaration",
			input: "var x = 42;",
			want: []tok{
				{TokenVar, "var"},
				{TokenIdentifier, "x"},
				{TokenEquals, "="},
				{TokenNumber, "42"},
				{TokenSemicolon, ";"},
				eof,
			},
		},
		{
			name:  "keywords ignore case",
			input: "Var CONST Funct rEtUrn If ELSE While For And OR",
			want: []tok{
				{TokenVar, "Var"},
				{TokenConst, "CONST"},
				{TokenFunct, "Funct"},
				{TokenReturn, "rEtUrn"},
				{TokenIf, "If"},
				{TokenElse, "ELSE"},
				{TokenWhile, "While"},
				{TokenFor, "For"},
				{TokenBinaryOperator, "And"},
				{TokenBinaryOperator, "OR"},
				eof,
			},
		},
		{
			name:  "elseif splits",
			input: "elseif ElseIf",
			want: []tok{
				{TokenElse, "else"},
				{TokenIf, "if"},
				{TokenElse, "Else"},
				{TokenIf, "If"},
				eof,
			},
		},
		{
			name:  "multi-character operators first",
			input: "a==b!=c>=d<=e>f<g",
			want: []tok{
				{TokenIdentifier, "a"},
				{TokenBinaryOperator, "=="},
				{TokenIdentifier, "b"},
				{TokenBinaryOperator, "!="},
				{TokenIdentifier, "c"},
				{TokenBinaryOperator, ">="},
				{TokenIdentifier, "d"},
				{TokenBinaryOperator, "<="},
				{TokenIdentifier, "e"},
				{TokenBinaryOperator, ">"},
				{TokenIdentifier, "f"},
				{TokenBinaryOperator, "<"},
				{TokenIdentifier, "g"},
				eof,
			},
		},
		{
			name:  "increment and decrement",
			input: "i++ j--",
			want: []tok{
				{TokenIdentifier, "i"},
				{TokenIncrement, "++"},
				{TokenIdentifier, "j"},
				{TokenDecrement, "--"},
				eof,
			},
		},
		{
			name:  "punctuation",
			input: "(){}[].:,;",
			want: []tok{
				{TokenOpenParen, "("},
				{TokenCloseParen, ")"},
				{TokenOpenBrace, "{"},
				{TokenCloseBrace, "}"},
				{TokenOpenBracket, "["},
				{TokenCloseBracket, "]"},
				{TokenDot, "."},
				{TokenColon, ":"},
				{TokenComma, ","},
				{TokenSemicolon, ";"},
				eof,
			},
		},
		{
			name:  "arithmetic",
			input: "1+2-3*4/5%6",
			want: []tok{
				{TokenNumber, "1"},
				{TokenBinaryOperator, "+"},
				{TokenNumber, "2"},
				{TokenBinaryOperator, "-"},
				{TokenNumber, "3"},
				{TokenBinaryOperator, "*"},
				{TokenNumber, "4"},
				{TokenBinaryOperator, "/"},
				{TokenNumber, "5"},
				{TokenBinaryOperator, "%"},
				{TokenNumber, "6"},
				eof,
			},
		},
		{
			name:  "strings keep content verbatim",
			input: `"hello world" 'it''s' "a\n"`,
			want: []tok{
				{TokenString, "hello world"},
				{TokenString, "it"},
				{TokenString, "s"},
				{TokenString, `a\n`},
				eof,
			},
		},
		{
			name:  "mixed quotes",
			input: `"say 'hi'" 'say "hi"'`,
			want: []tok{
				{TokenString, "say 'hi'"},
				{TokenString, `say "hi"`},
				eof,
			},
		},
		{
			name:  "comments are discarded",
			input: "x // the rest / is ignored\ny",
			want: []tok{
				{TokenIdentifier, "x"},
				{TokenIdentifier, "y"},
				eof,
			},
		},
		{
			name:  "decimal point is a member dot",
			input: "1.5",
			want: []tok{
				{TokenNumber, "1"},
				{TokenDot, "."},
				{TokenNumber, "5"},
				eof,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			if diff := cmp.Diff(tt.want, kinds(tokens)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("var x\n  = 1")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 1, Column: 5},
		{Offset: 8, Line: 2, Column: 3},
		{Offset: 10, Line: 2, Column: 5},
		{Offset: 11, Line: 2, Column: 6},
	}

	got := make([]Position, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Pos
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  int
		col   int
	}{
		{
			name:  "unrecognized character",
			input: "var x = 1\nx = @",
			want:  ErrUnrecognizedCharacter,
			line:  2,
			col:   5,
		},
		{
			name:  "bang alone",
			input: "!x",
			want:  ErrUnrecognizedCharacter,
			line:  1,
			col:   1,
		},
		{
			name:  "unterminated string",
			input: `print("oops)`,
			want:  ErrUnterminatedString,
			line:  1,
			col:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			pos, ok := e.Position()
			if !ok {
				t.Fatal("expected error position")
			}

			if pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("expected %d:%d, got %s", tt.line, tt.col, pos)
			}
		})
	}
}

func TestTokenKind_String(t *testing.T) {
	if got := TokenCloseBracket.String(); got != "CloseBracket" {
		t.Errorf("expected CloseBracket, got %q", got)
	}

	if got := TokenKind(99).String(); got != "TokenKind(99)" {
		t.Errorf("expected TokenKind(99), got %q", got)
	}
}
