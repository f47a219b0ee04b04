package lang

import "strconv"

// NodeKind identifies the variant of an AST [Node].
type NodeKind int

const (
	KindProgram             NodeKind = iota // Program
	KindVarDeclaration                      // VarDeclaration
	KindFunctionDeclaration                 // FunctionDeclaration
	KindIfStatement                         // IfStatement
	KindWhileStatement                      // WhileStatement
	KindForStatement                        // ForStatement
	KindReturnStatement                     // ReturnStatement
	KindAssignmentExpr                      // AssignmentExpr
	KindBinaryExpr                          // BinaryExpr
	KindCallExpr                            // CallExpr
	KindMemberExpr                          // MemberExpr
	KindIdentifier                          // Identifier
	KindNumericLiteral                      // NumericLiteral
	KindStringLiteral                       // StringLiteral
	KindObjectLiteral                       // ObjectLiteral
	KindArrayLiteral                        // ArrayLiteral
)

var nodeKindNames = [...]string{
	KindProgram:             "Program",
	KindVarDeclaration:      "VarDeclaration",
	KindFunctionDeclaration: "FunctionDeclaration",
	KindIfStatement:         "IfStatement",
	KindWhileStatement:      "WhileStatement",
	KindForStatement:        "ForStatement",
	KindReturnStatement:     "ReturnStatement",
	KindAssignmentExpr:      "AssignmentExpr",
	KindBinaryExpr:          "BinaryExpr",
	KindCallExpr:            "CallExpr",
	KindMemberExpr:          "MemberExpr",
	KindIdentifier:          "Identifier",
	KindNumericLiteral:      "NumericLiteral",
	KindStringLiteral:       "StringLiteral",
	KindObjectLiteral:       "ObjectLiteral",
	KindArrayLiteral:        "ArrayLiteral",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}

	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	Position() Position
}

// Stmt is a node that may appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value. Every Expr is also a Stmt.
type Expr interface {
	Stmt
	exprNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Body []Stmt
	Pos  Position
}

// VarDeclaration binds Name in the current scope. Value is nil when the
// declaration has no initializer.
type VarDeclaration struct {
	Value    Expr
	Name     string
	Pos      Position
	Constant bool
}

// FunctionDeclaration declares a named function. It is parsed at
// expression level, so it may also appear where a value is expected.
type FunctionDeclaration struct {
	Name       string
	Parameters []string
	Body       []Stmt
	Pos        Position
}

// IfStatement is a conditional. Else is nil when absent; an "else if"
// chain is a single nested IfStatement in Else.
type IfStatement struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt
	Pos       Position
}

// WhileStatement repeats Body while Condition holds.
type WhileStatement struct {
	Condition Expr
	Body      []Stmt
	Pos       Position
}

// ForStatement is a C-style loop with its own scope.
type ForStatement struct {
	Init      *VarDeclaration
	Condition Expr
	Increment Expr
	Body      []Stmt
	Pos       Position
}

// ReturnStatement unwinds to the nearest call boundary carrying Value.
type ReturnStatement struct {
	Value Stmt
	Pos   Position
}

// AssignmentExpr stores Value into Target.
type AssignmentExpr struct {
	Target Expr
	Value  Expr
	Pos    Position
}

// BinaryExpr applies Operator to Left and Right.
type BinaryExpr struct {
	Left     Expr
	Right    Expr
	Operator string
	Pos      Position
}

// CallExpr applies Callee to Arguments.
type CallExpr struct {
	Callee    Expr
	Arguments []Expr
	Pos       Position
}

// MemberExpr selects Property from Object. Computed is true for the
// bracket form obj[expr] and false for obj.name, where Property is an
// [*Identifier] naming the key.
type MemberExpr struct {
	Object   Expr
	Property Expr
	Pos      Position
	Computed bool
}

// Identifier references a binding by name.
type Identifier struct {
	Name string
	Pos  Position
}

// NumericLiteral is a number constant.
type NumericLiteral struct {
	Value float64
	Pos   Position
}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
	Pos   Position
}

// Property is a single key of an [ObjectLiteral]. Value is nil for the
// shorthand form {key}, which reads the identifier of the same name.
type Property struct {
	Value Expr
	Key   string
	Pos   Position
}

// ObjectLiteral constructs an object.
type ObjectLiteral struct {
	Properties []Property
	Pos        Position
}

// ArrayLiteral constructs an array.
type ArrayLiteral struct {
	Elements []Expr
	Pos      Position
}

func (n *Program) Kind() NodeKind             { return KindProgram }
func (n *VarDeclaration) Kind() NodeKind      { return KindVarDeclaration }
func (n *FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }
func (n *IfStatement) Kind() NodeKind         { return KindIfStatement }
func (n *WhileStatement) Kind() NodeKind      { return KindWhileStatement }
func (n *ForStatement) Kind() NodeKind        { return KindForStatement }
func (n *ReturnStatement) Kind() NodeKind     { return KindReturnStatement }
func (n *AssignmentExpr) Kind() NodeKind      { return KindAssignmentExpr }
func (n *BinaryExpr) Kind() NodeKind          { return KindBinaryExpr }
func (n *CallExpr) Kind() NodeKind            { return KindCallExpr }
func (n *MemberExpr) Kind() NodeKind          { return KindMemberExpr }
func (n *Identifier) Kind() NodeKind          { return KindIdentifier }
func (n *NumericLiteral) Kind() NodeKind      { return KindNumericLiteral }
func (n *StringLiteral) Kind() NodeKind       { return KindStringLiteral }
func (n *ObjectLiteral) Kind() NodeKind       { return KindObjectLiteral }
func (n *ArrayLiteral) Kind() NodeKind        { return KindArrayLiteral }

func (n *Program) Position() Position             { return n.Pos }
func (n *VarDeclaration) Position() Position      { return n.Pos }
func (n *FunctionDeclaration) Position() Position { return n.Pos }
func (n *IfStatement) Position() Position         { return n.Pos }
func (n *WhileStatement) Position() Position      { return n.Pos }
func (n *ForStatement) Position() Position        { return n.Pos }
func (n *ReturnStatement) Position() Position     { return n.Pos }
func (n *AssignmentExpr) Position() Position      { return n.Pos }
func (n *BinaryExpr) Position() Position          { return n.Pos }
func (n *CallExpr) Position() Position            { return n.Pos }
func (n *MemberExpr) Position() Position          { return n.Pos }
func (n *Identifier) Position() Position          { return n.Pos }
func (n *NumericLiteral) Position() Position      { return n.Pos }
func (n *StringLiteral) Position() Position       { return n.Pos }
func (n *ObjectLiteral) Position() Position       { return n.Pos }
func (n *ArrayLiteral) Position() Position        { return n.Pos }

func (*VarDeclaration) stmtNode()      {}
func (*FunctionDeclaration) stmtNode() {}
func (*IfStatement) stmtNode()         {}
func (*WhileStatement) stmtNode()      {}
func (*ForStatement) stmtNode()        {}
func (*ReturnStatement) stmtNode()     {}
func (*AssignmentExpr) stmtNode()      {}
func (*BinaryExpr) stmtNode()          {}
func (*CallExpr) stmtNode()            {}
func (*MemberExpr) stmtNode()          {}
func (*Identifier) stmtNode()          {}
func (*NumericLiteral) stmtNode()      {}
func (*StringLiteral) stmtNode()       {}
func (*ObjectLiteral) stmtNode()       {}
func (*ArrayLiteral) stmtNode()        {}

func (*FunctionDeclaration) exprNode() {}
func (*AssignmentExpr) exprNode()      {}
func (*BinaryExpr) exprNode()          {}
func (*CallExpr) exprNode()            {}
func (*MemberExpr) exprNode()          {}
func (*Identifier) exprNode()          {}
func (*NumericLiteral) exprNode()      {}
func (*StringLiteral) exprNode()       {}
func (*ObjectLiteral) exprNode()       {}
func (*ArrayLiteral) exprNode()        {}
