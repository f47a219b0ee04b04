package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/findof1/maw/log"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead so the source is fetched while the
	// previous chunk is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a program from a string.
// When [WithCache] is enabled, identical sources share one parsed tree.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeParseConfig(opts...)

	if cfg.cache {
		return parseStringCached(ctx, src, cfg)
	}

	return parse(ctx, src, cfg)
}

// MustParse is like [ParseString] but panics if the source cannot be parsed.
// It is intended for tests and package-level fixtures.
func MustParse(src string) *Program {
	prog, err := ParseString(context.Background(), src)
	if err != nil {
		panic(err)
	}

	return prog
}

// Option configures parsing behavior.
type Option func(*parseConfig)

type parseConfig struct {
	logger log.Logger
	cache  bool
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *parseConfig) {
		c.logger = logger
	}
}

// WithCache enables memoization of parsed programs keyed by source hash.
// Cached programs are shared and must not be mutated.
func WithCache(enable bool) Option {
	return func(c *parseConfig) {
		c.cache = enable
	}
}

func makeParseConfig(opts ...Option) parseConfig {
	var c parseConfig

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func parse(ctx context.Context, src string, cfg parseConfig) (*Program, error) {
	cfg.logger.TraceContext(ctx, "parse start", slog.Int("source_bytes", len(src)))

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, logger: cfg.logger}

	prog, perr := p.parseProgram()
	if perr != nil {
		return nil, ErrParse.Wrap(perr.WithSource(src))
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Body)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
	logger log.Logger
}

// parseProgram parses statements until end of input.
func (p *parser) parseProgram() (*Program, *Error) {
	prog := &Program{Body: make([]Stmt, 0), Pos: p.peek().Pos}

	for {
		p.skipSemicolons()

		if p.eof() {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

// parseStatement dispatches on the leading token.
func (p *parser) parseStatement() (Stmt, *Error) {
	var (
		stmt Stmt
		err  *Error
	)

	switch p.peek().Kind {
	case TokenVar, TokenConst:
		stmt, err = p.parseVarDeclaration()
	case TokenIf:
		stmt, err = p.parseIfStatement()
	case TokenWhile:
		stmt, err = p.parseWhileStatement()
	case TokenFor:
		stmt, err = p.parseForStatement()
	case TokenReturn:
		stmt, err = p.parseReturnStatement()
	default:
		stmt, err = p.parseExpr()
	}

	if err != nil {
		return nil, err
	}

	p.skipSemicolons()

	return stmt, nil
}

// parseBlock parses '{' Stmt* '}'.
func (p *parser) parseBlock(what string) ([]Stmt, *Error) {
	if _, err := p.expect(TokenOpenBrace, what); err != nil {
		return nil, err
	}

	body := make([]Stmt, 0)

	for {
		p.skipSemicolons()

		if p.eof() || p.at(TokenCloseBrace) {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	if _, err := p.expect(TokenCloseBrace, what); err != nil {
		return nil, err
	}

	return body, nil
}

// parseVarDeclaration parses: ('var' | 'const') Identifier ('=' Expr)?.
func (p *parser) parseVarDeclaration() (*VarDeclaration, *Error) {
	kw := p.advance()

	name, err := p.expect(TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}

	decl := &VarDeclaration{
		Name:     name.Text,
		Constant: kw.Kind == TokenConst,
		Pos:      kw.Pos,
	}

	if !p.at(TokenEquals) {
		if decl.Constant {
			return nil, ErrConstantWithoutValue.WithPosition(name.Pos).
				With(slog.String("name", name.Text))
		}

		return decl, nil
	}

	p.advance()

	if decl.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}

	return decl, nil
}

// parseIfStatement parses: 'if' '(' Expr ')' Block ('else' (If | Block))?.
func (p *parser) parseIfStatement() (*IfStatement, *Error) {
	kw := p.advance()

	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock("if body")
	if err != nil {
		return nil, err
	}

	stmt := &IfStatement{Condition: cond, Then: then, Pos: kw.Pos}

	if !p.at(TokenElse) {
		return stmt, nil
	}

	p.advance()

	if p.at(TokenIf) {
		nested, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}

		stmt.Else = []Stmt{nested}

		return stmt, nil
	}

	if stmt.Else, err = p.parseBlock("else body"); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseWhileStatement parses: 'while' '(' Expr ')' Block.
func (p *parser) parseWhileStatement() (*WhileStatement, *Error) {
	kw := p.advance()

	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock("while body")
	if err != nil {
		return nil, err
	}

	return &WhileStatement{Condition: cond, Body: body, Pos: kw.Pos}, nil
}

// parseForStatement parses:
// 'for' '(' VarDeclaration ';' Expr ';' Assignment ')' Block.
func (p *parser) parseForStatement() (*ForStatement, *Error) {
	kw := p.advance()

	if _, err := p.expect(TokenOpenParen, "for"); err != nil {
		return nil, err
	}

	if !p.at(TokenVar) && !p.at(TokenConst) {
		return nil, p.unexpected("for initializer")
	}

	init, err := p.parseVarDeclaration()
	if err != nil {
		return nil, err
	}

	p.skipSemicolons()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipSemicolons()

	incr, err := p.parseAssignmentExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParen, "for"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock("for body")
	if err != nil {
		return nil, err
	}

	return &ForStatement{
		Init:      init,
		Condition: cond,
		Increment: incr,
		Body:      body,
		Pos:       kw.Pos,
	}, nil
}

// parseReturnStatement parses: 'return' Stmt?. A bare return yields null.
func (p *parser) parseReturnStatement() (*ReturnStatement, *Error) {
	kw := p.advance()

	if p.eof() || p.at(TokenSemicolon) || p.at(TokenCloseBrace) {
		return &ReturnStatement{Pos: kw.Pos}, nil
	}

	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ReturnStatement{Value: value, Pos: kw.Pos}, nil
}

// parseCondition parses: '(' Expr ')'.
func (p *parser) parseCondition(what string) (Expr, *Error) {
	if _, err := p.expect(TokenOpenParen, what+" condition"); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParen, what+" condition"); err != nil {
		return nil, err
	}

	return cond, nil
}

// parseExpr parses a full expression. A leading 'funct' keyword introduces
// a function declaration.
func (p *parser) parseExpr() (Expr, *Error) {
	if p.at(TokenFunct) {
		return p.parseFunctionDeclaration()
	}

	return p.parseAssignmentExpr()
}

// parseFunctionDeclaration parses:
// 'funct' Identifier '(' (Identifier (',' Identifier)*)? ')' Block.
func (p *parser) parseFunctionDeclaration() (*FunctionDeclaration, *Error) {
	kw := p.advance()

	name, err := p.expect(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenOpenParen, "parameter list"); err != nil {
		return nil, err
	}

	params := make([]string, 0)

	for !p.at(TokenCloseParen) {
		param, err := p.expect(TokenIdentifier, "parameter name")
		if err != nil {
			return nil, err
		}

		params = append(params, param.Text)

		if !p.at(TokenCloseParen) {
			if _, err := p.expect(TokenComma, "parameter list"); err != nil {
				return nil, err
			}
		}
	}

	p.advance()

	body, err := p.parseBlock("function body")
	if err != nil {
		return nil, err
	}

	return &FunctionDeclaration{
		Name:       name.Text,
		Parameters: params,
		Body:       body,
		Pos:        kw.Pos,
	}, nil
}

// parseAssignmentExpr parses the lowest-precedence level:
// Target ('=' Expr | '++' | '--')?. Assignment is right-associative.
func (p *parser) parseAssignmentExpr() (Expr, *Error) {
	left, err := p.parseLiteralExpr()
	if err != nil {
		return nil, err
	}

	switch tok := p.peek(); tok.Kind {
	case TokenEquals:
		p.advance()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &AssignmentExpr{Target: left, Value: value, Pos: tok.Pos}, nil

	case TokenIncrement, TokenDecrement:
		p.advance()

		op := "+"
		if tok.Kind == TokenDecrement {
			op = "-"
		}

		return &AssignmentExpr{
			Target: left,
			Value: &BinaryExpr{
				Left:     left,
				Right:    &NumericLiteral{Value: 1, Pos: tok.Pos},
				Operator: op,
				Pos:      tok.Pos,
			},
			Pos: tok.Pos,
		}, nil
	}

	return left, nil
}

// parseLiteralExpr parses an array or object literal when one begins at the
// cursor, otherwise falls through to the logical level.
func (p *parser) parseLiteralExpr() (Expr, *Error) {
	switch p.peek().Kind {
	case TokenOpenBracket:
		return p.parseArrayLiteral()
	case TokenOpenBrace:
		return p.parseObjectLiteral()
	default:
		return p.parseLogicalExpr()
	}
}

// parseArrayLiteral parses: '[' (Expr (',' Expr)*)? ']'.
func (p *parser) parseArrayLiteral() (*ArrayLiteral, *Error) {
	open := p.advance()
	arr := &ArrayLiteral{Elements: make([]Expr, 0), Pos: open.Pos}

	for !p.eof() && !p.at(TokenCloseBracket) {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		arr.Elements = append(arr.Elements, elem)

		if !p.at(TokenCloseBracket) {
			if _, err := p.expect(TokenComma, "array literal"); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(TokenCloseBracket, "array literal"); err != nil {
		return nil, err
	}

	return arr, nil
}

// parseObjectLiteral parses: '{' (Property (',' Property)*)? '}' where
// Property is Identifier (':' Expr)?.
func (p *parser) parseObjectLiteral() (*ObjectLiteral, *Error) {
	open := p.advance()
	obj := &ObjectLiteral{Properties: make([]Property, 0), Pos: open.Pos}

	for !p.eof() && !p.at(TokenCloseBrace) {
		key, err := p.expect(TokenIdentifier, "object key")
		if err != nil {
			return nil, err
		}

		prop := Property{Key: key.Text, Pos: key.Pos}

		if p.at(TokenColon) {
			p.advance()

			if prop.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}

		obj.Properties = append(obj.Properties, prop)

		if !p.at(TokenCloseBrace) {
			if _, err := p.expect(TokenComma, "object literal"); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(TokenCloseBrace, "object literal"); err != nil {
		return nil, err
	}

	return obj, nil
}

// parseLogicalExpr parses: Additive (('and' | 'or') Additive)*.
func (p *parser) parseLogicalExpr() (Expr, *Error) {
	return p.parseBinary(p.parseAdditiveExpr, isLogicalOperator)
}

// parseAdditiveExpr parses arithmetic sums and comparisons, which share one
// precedence level.
func (p *parser) parseAdditiveExpr() (Expr, *Error) {
	return p.parseBinary(p.parseMultiplicativeExpr, isAdditiveOperator)
}

// parseMultiplicativeExpr parses: CallMember (('*' | '/' | '%') CallMember)*.
func (p *parser) parseMultiplicativeExpr() (Expr, *Error) {
	return p.parseBinary(p.parseCallMemberExpr, isMultiplicativeOperator)
}

// parseBinary parses a left-associative chain of operators matched by
// match, with operands produced by next.
func (p *parser) parseBinary(
	next func() (Expr, *Error),
	match func(string) bool,
) (Expr, *Error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for tok := p.peek(); tok.Kind == TokenBinaryOperator && match(tok.Text); tok = p.peek() {
		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Left:     left,
			Right:    right,
			Operator: tok.Text,
			Pos:      tok.Pos,
		}
	}

	return left, nil
}

func isLogicalOperator(op string) bool {
	return strings.EqualFold(op, "and") || strings.EqualFold(op, "or")
}

func isAdditiveOperator(op string) bool {
	switch op {
	case "+", "-", "==", ">=", "<=", "!=", ">", "<":
		return true
	}

	return false
}

func isMultiplicativeOperator(op string) bool {
	switch op {
	case "*", "/", "%":
		return true
	}

	return false
}

// parseCallMemberExpr parses a primary expression followed by any chain of
// '.' Identifier, '[' Expr ']' and '(' Args ')' suffixes.
func (p *parser) parseCallMemberExpr() (Expr, *Error) {
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		switch tok := p.peek(); tok.Kind {
		case TokenDot:
			p.advance()

			name, err := p.expect(TokenIdentifier, "property name")
			if err != nil {
				return nil, err
			}

			expr = &MemberExpr{
				Object:   expr,
				Property: &Identifier{Name: name.Text, Pos: name.Pos},
				Pos:      tok.Pos,
			}

		case TokenOpenBracket:
			p.advance()

			prop, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(TokenCloseBracket, "computed member"); err != nil {
				return nil, err
			}

			expr = &MemberExpr{
				Object:   expr,
				Property: prop,
				Computed: true,
				Pos:      tok.Pos,
			}

		case TokenOpenParen:
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}

			expr = &CallExpr{Callee: expr, Arguments: args, Pos: tok.Pos}

		default:
			return expr, nil
		}
	}
}

// parseArguments parses: '(' (Expr (',' Expr)*)? ')'.
func (p *parser) parseArguments() ([]Expr, *Error) {
	if _, err := p.expect(TokenOpenParen, "argument list"); err != nil {
		return nil, err
	}

	args := make([]Expr, 0)

	if p.at(TokenCloseParen) {
		p.advance()

		return args, nil
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.at(TokenComma) {
			break
		}

		p.advance()
	}

	if _, err := p.expect(TokenCloseParen, "argument list"); err != nil {
		return nil, err
	}

	return args, nil
}

// parsePrimaryExpr parses identifiers, literals, parenthesized expressions
// and unary minus, which is rewritten as subtraction from zero.
func (p *parser) parsePrimaryExpr() (Expr, *Error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenIdentifier:
		p.advance()

		return &Identifier{Name: tok.Text, Pos: tok.Pos}, nil

	case TokenNumber:
		p.advance()

		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, ErrUnexpectedToken.WithPosition(tok.Pos).Wrap(err)
		}

		return &NumericLiteral{Value: n, Pos: tok.Pos}, nil

	case TokenString:
		p.advance()

		return &StringLiteral{Value: tok.Text, Pos: tok.Pos}, nil

	case TokenOpenParen:
		p.advance()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenCloseParen, "parenthesized expression"); err != nil {
			return nil, err
		}

		return expr, nil

	case TokenBinaryOperator:
		if tok.Text == "-" {
			p.advance()

			operand, err := p.parseCallMemberExpr()
			if err != nil {
				return nil, err
			}

			return &BinaryExpr{
				Left:     &NumericLiteral{Value: 0, Pos: tok.Pos},
				Right:    operand,
				Operator: "-",
				Pos:      tok.Pos,
			}, nil
		}
	}

	return nil, p.unexpected("expression")
}

// expect consumes the next token if it has the given kind and reports an
// unexpected-token error otherwise.
func (p *parser) expect(kind TokenKind, what string) (Token, *Error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(what, kind)
	}

	p.advance()

	return tok, nil
}

// unexpected reports the current token as a grammar violation while parsing
// what. The optional expected kind is included in the message.
func (p *parser) unexpected(what string, expected ...TokenKind) *Error {
	tok := p.peek()

	attrs := []slog.Attr{
		slog.String("context", what),
		slog.String("actual", tok.Kind.String()),
	}

	detail := "got " + tok.Kind.String()
	if tok.Kind != TokenEOF {
		detail += " " + strconv.Quote(tok.Text)
		attrs = append(attrs, slog.String("text", tok.Text))
	}

	if len(expected) > 0 {
		detail = "expected " + expected[0].String() + " in " + what + ", " + detail
		attrs = append(attrs, slog.String("expected", expected[0].String()))
	} else {
		detail = "in " + what + ", " + detail
	}

	p.logger.Trace("unexpected token", attrs...)

	return ErrUnexpectedToken.WithPosition(tok.Pos).
		Wrap(errors.New(detail)).
		With(attrs...)
}

func (p *parser) skipSemicolons() {
	for p.at(TokenSemicolon) {
		p.advance()
	}
}

func (p *parser) at(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) eof() bool {
	return p.at(TokenEOF)
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

// advance consumes and returns the current token. The trailing EOF token is
// never consumed.
func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}
