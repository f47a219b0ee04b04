package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native Maw syntax. With indent > 0 each
// statement is placed on its own line and blocks are indented by that many
// spaces; otherwise the program is written on a single line.
//
// The output parses back into an equivalent program.
func (prog *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{indent: indent}
	f.stmts(prog.Body, 0)

	if indent > 0 || f.Len() > 0 {
		f.WriteByte('\n')
	}

	_, err := io.WriteString(w, f.String())

	return err
}

// String returns the program in compact native syntax.
func (prog *Program) String() string {
	var sb strings.Builder

	_ = prog.Format(context.Background(), &sb, 0)

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatJSON writes the program's syntax tree as JSON.
func (prog *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(prog.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(prog.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program's syntax tree as YAML.
func (prog *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, prog.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// formatter accumulates native syntax.
type formatter struct {
	strings.Builder
	indent int
}

func (f *formatter) pad(depth int) {
	if f.indent > 0 {
		f.WriteString(strings.Repeat(" ", f.indent*depth))
	}
}

func (f *formatter) stmts(stmts []Stmt, depth int) {
	for i, stmt := range stmts {
		if i > 0 {
			if f.indent > 0 {
				f.WriteByte('\n')
			} else {
				f.WriteByte(' ')
			}
		}

		f.pad(depth)
		f.stmt(stmt, depth)
	}
}

// block writes '{' stmts '}' with the closing brace at depth.
func (f *formatter) block(stmts []Stmt, depth int) {
	if len(stmts) == 0 {
		f.WriteString("{}")

		return
	}

	f.WriteByte('{')

	if f.indent > 0 {
		f.WriteByte('\n')
	} else {
		f.WriteByte(' ')
	}

	f.stmts(stmts, depth+1)

	if f.indent > 0 {
		f.WriteByte('\n')
		f.pad(depth)
	} else {
		f.WriteByte(' ')
	}

	f.WriteByte('}')
}

func (f *formatter) stmt(stmt Stmt, depth int) {
	switch s := stmt.(type) {
	case *VarDeclaration:
		f.varDecl(s, depth)
		f.WriteByte(';')

	case *FunctionDeclaration:
		f.function(s, depth)

	case *IfStatement:
		f.ifStmt(s, depth)

	case *WhileStatement:
		f.WriteString("while (")
		f.expr(s.Condition, depth)
		f.WriteString(") ")
		f.block(s.Body, depth)

	case *ForStatement:
		f.WriteString("for (")

		if s.Init != nil {
			f.varDecl(s.Init, depth)
		}

		f.WriteString("; ")
		f.expr(s.Condition, depth)
		f.WriteString("; ")

		if s.Increment != nil {
			f.expr(s.Increment, depth)
		}

		f.WriteString(") ")
		f.block(s.Body, depth)

	case *ReturnStatement:
		f.WriteString("return")

		if s.Value != nil {
			f.WriteByte(' ')
			f.stmt(s.Value, depth)

			return
		}

		f.WriteByte(';')

	case Expr:
		f.expr(s, depth)
		f.WriteByte(';')
	}
}

func (f *formatter) varDecl(d *VarDeclaration, depth int) {
	if d.Constant {
		f.WriteString("const ")
	} else {
		f.WriteString("var ")
	}

	f.WriteString(d.Name)

	if d.Value != nil {
		f.WriteString(" = ")
		f.expr(d.Value, depth)
	}
}

func (f *formatter) function(d *FunctionDeclaration, depth int) {
	f.WriteString("funct ")
	f.WriteString(d.Name)
	f.WriteByte('(')
	f.WriteString(strings.Join(d.Parameters, ", "))
	f.WriteString(") ")
	f.block(d.Body, depth)
}

func (f *formatter) ifStmt(s *IfStatement, depth int) {
	f.WriteString("if (")
	f.expr(s.Condition, depth)
	f.WriteString(") ")
	f.block(s.Then, depth)

	if s.Else == nil {
		return
	}

	f.WriteString(" else ")

	if len(s.Else) == 1 {
		if nested, ok := s.Else[0].(*IfStatement); ok {
			f.ifStmt(nested, depth)

			return
		}
	}

	f.block(s.Else, depth)
}

func (f *formatter) expr(e Expr, depth int) {
	switch x := e.(type) {
	case *Identifier:
		f.WriteString(x.Name)

	case *NumericLiteral:
		// source literals are unsigned integers; never use exponent form
		f.WriteString(strconv.FormatFloat(x.Value, 'f', -1, 64))

	case *StringLiteral:
		f.WriteString(quote(x.Value))

	case *FunctionDeclaration:
		f.function(x, depth)

	case *AssignmentExpr:
		f.expr(x.Target, depth)
		f.WriteString(" = ")
		f.expr(x.Value, depth)

	case *BinaryExpr:
		f.operand(x.Left, depth)
		f.WriteByte(' ')
		f.WriteString(x.Operator)
		f.WriteByte(' ')
		f.operand(x.Right, depth)

	case *CallExpr:
		f.operand(x.Callee, depth)
		f.WriteByte('(')

		for i, arg := range x.Arguments {
			if i > 0 {
				f.WriteString(", ")
			}

			f.expr(arg, depth)
		}

		f.WriteByte(')')

	case *MemberExpr:
		f.operand(x.Object, depth)

		if id, ok := x.Property.(*Identifier); ok && !x.Computed {
			f.WriteByte('.')
			f.WriteString(id.Name)
		} else {
			f.WriteByte('[')
			f.expr(x.Property, depth)
			f.WriteByte(']')
		}

	case *ArrayLiteral:
		f.WriteByte('[')

		for i, elem := range x.Elements {
			if i > 0 {
				f.WriteString(", ")
			}

			f.expr(elem, depth)
		}

		f.WriteByte(']')

	case *ObjectLiteral:
		if len(x.Properties) == 0 {
			f.WriteString("{}")

			return
		}

		f.WriteString("{ ")

		for i, prop := range x.Properties {
			if i > 0 {
				f.WriteString(", ")
			}

			f.WriteString(prop.Key)

			if prop.Value != nil {
				f.WriteString(": ")
				f.expr(prop.Value, depth)
			}
		}

		f.WriteString(" }")
	}
}

// operand writes e, parenthesized unless it is a primary or postfix
// expression that binds tighter than any binary operator.
func (f *formatter) operand(e Expr, depth int) {
	switch e.(type) {
	case *Identifier, *NumericLiteral, *StringLiteral, *CallExpr, *MemberExpr:
		f.expr(e, depth)
	default:
		f.WriteByte('(')
		f.expr(e, depth)
		f.WriteByte(')')
	}
}

// quote delimits s with double quotes, or single quotes when s contains a
// double quote. There are no escape sequences.
func quote(s string) string {
	if strings.ContainsRune(s, '"') {
		return "'" + s + "'"
	}

	return `"` + s + `"`
}
