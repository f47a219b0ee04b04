package lang

import (
	"context"
	"io"
	"strings"
)

// Print writes an indented outline of the syntax tree to w, one node per
// line.
func (prog *Program) Print(ctx context.Context, w io.Writer) error {
	return prog.PrintIndent(ctx, w, 0)
}

// PrintIndent is like [Program.Print] but starts at the given depth.
func (prog *Program) PrintIndent(_ context.Context, w io.Writer, indent int) error {
	p := &printer{w: w}
	p.node(prog, indent)

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) put(depth int, parts ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w, strings.Repeat("  ", depth)+strings.Join(parts, ": ")+"\n")
}

// section prints a label followed by stmts one level deeper.
func (p *printer) section(depth int, label string, stmts []Stmt) {
	p.put(depth, label)

	if len(stmts) == 0 {
		p.put(depth+1, "(empty)")

		return
	}

	for _, stmt := range stmts {
		p.node(stmt, depth+1)
	}
}

// child prints a label followed by a single node one level deeper.
func (p *printer) child(depth int, label string, node Node) {
	p.put(depth, label)
	p.node(node, depth+1)
}

func (p *printer) node(node Node, depth int) {
	switch n := node.(type) {
	case nil:
		p.put(depth, "(nil)")

	case *Program:
		p.put(depth, "Program")

		for _, stmt := range n.Body {
			p.node(stmt, depth+1)
		}

	case *VarDeclaration:
		name := n.Name
		if n.Constant {
			name += " (const)"
		}

		p.put(depth, "VarDeclaration", name)

		if n.Value != nil {
			p.node(n.Value, depth+1)
		}

	case *FunctionDeclaration:
		p.put(depth, "FunctionDeclaration",
			n.Name+"("+strings.Join(n.Parameters, ", ")+")")
		p.section(depth+1, "Body", n.Body)

	case *IfStatement:
		p.put(depth, "IfStatement")
		p.child(depth+1, "Condition", n.Condition)
		p.section(depth+1, "Then", n.Then)

		if n.Else != nil {
			p.section(depth+1, "Else", n.Else)
		}

	case *WhileStatement:
		p.put(depth, "WhileStatement")
		p.child(depth+1, "Condition", n.Condition)
		p.section(depth+1, "Body", n.Body)

	case *ForStatement:
		p.put(depth, "ForStatement")

		if n.Init != nil {
			p.child(depth+1, "Init", n.Init)
		}

		p.child(depth+1, "Condition", n.Condition)

		if n.Increment != nil {
			p.child(depth+1, "Increment", n.Increment)
		}

		p.section(depth+1, "Body", n.Body)

	case *ReturnStatement:
		p.put(depth, "ReturnStatement")

		if n.Value != nil {
			p.node(n.Value, depth+1)
		}

	case *AssignmentExpr:
		p.put(depth, "AssignmentExpr")
		p.child(depth+1, "Target", n.Target)
		p.child(depth+1, "Value", n.Value)

	case *BinaryExpr:
		p.put(depth, "BinaryExpr", n.Operator)
		p.node(n.Left, depth+1)
		p.node(n.Right, depth+1)

	case *CallExpr:
		p.put(depth, "CallExpr")
		p.child(depth+1, "Callee", n.Callee)

		args := make([]Stmt, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = arg
		}

		p.section(depth+1, "Arguments", args)

	case *MemberExpr:
		if n.Computed {
			p.put(depth, "MemberExpr", "computed")
		} else {
			p.put(depth, "MemberExpr")
		}

		p.node(n.Object, depth+1)
		p.node(n.Property, depth+1)

	case *Identifier:
		p.put(depth, "Identifier", n.Name)

	case *NumericLiteral:
		p.put(depth, "NumericLiteral", FormatNumber(n.Value))

	case *StringLiteral:
		p.put(depth, "StringLiteral", quote(n.Value))

	case *ObjectLiteral:
		p.put(depth, "ObjectLiteral")

		if len(n.Properties) == 0 {
			p.put(depth+1, "(empty)")
		}

		for _, prop := range n.Properties {
			if prop.Value == nil {
				p.put(depth+1, "Property", prop.Key+" (shorthand)")

				continue
			}

			p.child(depth+1, "Property: "+prop.Key, prop.Value)
		}

	case *ArrayLiteral:
		p.put(depth, "ArrayLiteral")

		if len(n.Elements) == 0 {
			p.put(depth+1, "(empty)")
		}

		for _, elem := range n.Elements {
			p.node(elem, depth+1)
		}

	default:
		p.put(depth, node.Kind().String())
	}
}
