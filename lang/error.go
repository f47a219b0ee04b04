package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput             = NewError("failed to read input")
	ErrParse                 = NewError("parse error")
	ErrUnrecognizedCharacter = NewError("unrecognized character")
	ErrUnterminatedString    = NewError("unterminated string literal")
	ErrUnexpectedToken       = NewError("unexpected token")
	ErrConstantWithoutValue  = NewError("constant declared without value")
	ErrDuplicateDeclaration  = NewError("variable already declared")
	ErrUndefined             = NewError("undefined variable")
	ErrAssignConstant        = NewError("cannot assign to constant")
	ErrReservedIdentifier    = NewError("cannot assign to reserved identifier")
	ErrDeleteConstant        = NewError("cannot delete constant")
	ErrNonBooleanCondition   = NewError("condition is not a boolean")
	ErrNotCallable           = NewError("value is not callable")
	ErrArityMismatch         = NewError("argument count mismatch")
	ErrInvalidMember         = NewError("invalid member access")
	ErrInvalidAssignment     = NewError("invalid assignment target")
	ErrUnsupportedNode       = NewError("unsupported node")
	ErrInvalidArgument       = NewError("invalid argument")
	ErrInterrupted           = NewError("evaluation interrupted")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	pos   *Position
	src   string
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is "<msg>: <err>", dropping whichever part is empty. When the
// error carries a position and the source it refers to, the offending line
// and a caret marker are appended.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	if e.pos != nil {
		msg = "line " + strconv.Itoa(e.pos.Line) +
			", column " + strconv.Itoa(e.pos.Column) + ": " + msg

		if e.src != "" {
			msg += "\n" + snippet(e.src, *e.pos)
		}
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e. Derived errors
// created by [Error.Wrap], [Error.With] and friends share the sentinel's
// message and compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition records the source position the error refers to.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// WithSource attaches the source text so that [Error.Error] can render the
// offending line. It has no visible effect on errors without a position.
func (e *Error) WithSource(src string) *Error {
	c := e.clone()
	c.src = src

	return c
}

// Position returns the source position recorded on the error, if any.
// Wrapped errors are searched when e has no position of its own.
func (e *Error) Position() (Position, bool) {
	if e.pos != nil {
		return *e.pos, true
	}

	var inner *Error
	if errors.As(e.err, &inner) {
		return inner.Position()
	}

	return Position{}, false
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// snippet renders the line containing pos followed by a caret under the
// column:
//
//	  3 | var x = @
//	              ^
func snippet(src string, pos Position) string {
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(strings.TrimRight(lines[pos.Line-1], "\r"))
	sb.WriteRune('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", pos.Column-1))
	}

	sb.WriteString("^")

	return sb.String()
}

// ExitError is returned by evaluation when a script requests process
// termination. Hosts decide whether to honor Code.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}
