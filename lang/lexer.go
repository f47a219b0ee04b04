package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF            TokenKind = iota // EndOfFile
	TokenNumber                          // Number
	TokenString                          // String
	TokenIdentifier                      // Identifier
	TokenVar                             // Var
	TokenConst                           // Const
	TokenFunct                           // Funct
	TokenReturn                          // Return
	TokenIf                              // If
	TokenElse                            // Else
	TokenWhile                           // While
	TokenFor                             // For
	TokenEquals                          // Equals
	TokenBinaryOperator                  // BinaryOperator
	TokenIncrement                       // Increment
	TokenDecrement                       // Decrement
	TokenComma                           // Comma
	TokenColon                           // Colon
	TokenSemicolon                       // Semicolon
	TokenDot                             // Dot
	TokenOpenParen                       // OpenParen
	TokenCloseParen                      // CloseParen
	TokenOpenBrace                       // OpenBrace
	TokenCloseBrace                      // CloseBrace
	TokenOpenBracket                     // OpenBracket
	TokenCloseBracket                    // CloseBracket
)

var tokenKindNames = [...]string{
	TokenEOF:            "EndOfFile",
	TokenNumber:         "Number",
	TokenString:         "String",
	TokenIdentifier:     "Identifier",
	TokenVar:            "Var",
	TokenConst:          "Const",
	TokenFunct:          "Funct",
	TokenReturn:         "Return",
	TokenIf:             "If",
	TokenElse:           "Else",
	TokenWhile:          "While",
	TokenFor:            "For",
	TokenEquals:         "Equals",
	TokenBinaryOperator: "BinaryOperator",
	TokenIncrement:      "Increment",
	TokenDecrement:      "Decrement",
	TokenComma:          "Comma",
	TokenColon:          "Colon",
	TokenSemicolon:      "Semicolon",
	TokenDot:            "Dot",
	TokenOpenParen:      "OpenParen",
	TokenCloseParen:     "CloseParen",
	TokenOpenBrace:      "OpenBrace",
	TokenCloseBrace:     "CloseBrace",
	TokenOpenBracket:    "OpenBracket",
	TokenCloseBracket:   "CloseBracket",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps lower-cased reserved words to their token kind.
// Matching is case-insensitive.
var keywords = map[string]TokenKind{
	"var":    TokenVar,
	"const":  TokenConst,
	"funct":  TokenFunct,
	"return": TokenReturn,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"for":    TokenFor,
	"and":    TokenBinaryOperator,
	"or":     TokenBinaryOperator,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// Position identifies a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexeme.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

func (t Token) String() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
}

// lexer holds the scanner state.
type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []Token
}

// Tokenize splits src into tokens. The returned slice always ends with a
// [TokenEOF] token.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}

	for !l.eof() {
		if err := l.next(); err != nil {
			return nil, err.WithSource(src)
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind: TokenEOF,
		Text: "EndOfFile",
		Pos:  l.position(),
	})

	return l.tokens, nil
}

// next scans one lexeme (or skips whitespace/comment) at the cursor.
func (l *lexer) next() *Error {
	start := l.position()
	r := l.peek()

	switch {
	case r == '/' && l.peekAt(1) == '/':
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		return nil

	case strings.HasPrefix(l.src[l.pos:], "=="),
		strings.HasPrefix(l.src[l.pos:], "!="),
		strings.HasPrefix(l.src[l.pos:], ">="),
		strings.HasPrefix(l.src[l.pos:], "<="):
		l.emitN(TokenBinaryOperator, 2, start)

		return nil

	case strings.HasPrefix(l.src[l.pos:], "++"):
		l.emitN(TokenIncrement, 2, start)

		return nil

	case strings.HasPrefix(l.src[l.pos:], "--"):
		l.emitN(TokenDecrement, 2, start)

		return nil
	}

	if kind, ok := punctuation[r]; ok {
		l.emitN(kind, 1, start)

		return nil
	}

	switch {
	case strings.ContainsRune("+-*/%<>", r):
		l.emitN(TokenBinaryOperator, 1, start)

	case r == '=':
		l.emitN(TokenEquals, 1, start)

	case r == '"' || r == '\'':
		return l.scanString(r, start)

	case isDigit(r):
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}

		l.emit(TokenNumber, l.src[start.Offset:l.pos], start)

	case unicode.IsLetter(r):
		l.scanWord(start)

	case unicode.IsSpace(r):
		l.advance()

	default:
		return ErrUnrecognizedCharacter.WithPosition(start).
			With(slog.String("char", string(r)), slog.Int("code", int(r)))
	}

	return nil
}

var punctuation = map[rune]TokenKind{
	'(': TokenOpenParen,
	')': TokenCloseParen,
	'{': TokenOpenBrace,
	'}': TokenCloseBrace,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	'.': TokenDot,
	':': TokenColon,
	',': TokenComma,
	';': TokenSemicolon,
}

// scanString consumes a quoted literal. The token text excludes the quotes.
// No escape sequences are recognized.
func (l *lexer) scanString(quote rune, start Position) *Error {
	l.advance()

	begin := l.pos

	for !l.eof() && l.peek() != quote {
		l.advance()
	}

	if l.eof() {
		return ErrUnterminatedString.WithPosition(start).
			With(slog.String("quote", string(quote)))
	}

	l.emit(TokenString, l.src[begin:l.pos], start)
	l.advance()

	return nil
}

// scanWord consumes a run of letters as an identifier or keyword.
func (l *lexer) scanWord(start Position) {
	for !l.eof() && unicode.IsLetter(l.peek()) {
		l.advance()
	}

	word := l.src[start.Offset:l.pos]
	lower := strings.ToLower(word)

	if lower == "elseif" {
		l.emit(TokenElse, word[:4], start)

		start.Offset += 4
		start.Column += 4

		l.emit(TokenIf, word[4:], start)

		return
	}

	if kind, ok := keywords[lower]; ok {
		l.emit(kind, word, start)

		return
	}

	l.emit(TokenIdentifier, word, start)
}

func (l *lexer) emit(kind TokenKind, text string, pos Position) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

func (l *lexer) emitN(kind TokenKind, n int, pos Position) {
	for range n {
		l.advance()
	}

	l.emit(kind, l.src[pos.Offset:l.pos], pos)
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	return r
}

func (l *lexer) peekAt(n int) rune {
	i := l.pos
	for range n {
		if i >= len(l.src) {
			return utf8.RuneError
		}

		_, size := utf8.DecodeRuneInString(l.src[i:])
		i += size
	}

	if i >= len(l.src) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[i:])

	return r
}

func (l *lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
