package lang

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
)

// ErrMaxDepthExceeded is returned when user function calls nest deeper than
// the runtime allows.
var ErrMaxDepthExceeded = NewError("maximum call depth exceeded")

// eval dispatches on the node kind. The result may be a returnSignal, which
// callers must propagate until a call boundary.
func (rt *Runtime) eval(ctx context.Context, node Node, env *Environment) (Value, error) {
	switch n := node.(type) {
	case *Program:
		return rt.evalProgram(ctx, n, env)

	case *NumericLiteral:
		return Number(n.Value), nil

	case *StringLiteral:
		return String(n.Value), nil

	case *Identifier:
		v, err := env.Lookup(n.Name)
		if err != nil {
			return nil, at(n, err)
		}

		return v, nil

	case *ObjectLiteral:
		return rt.evalObject(ctx, n, env)

	case *ArrayLiteral:
		return rt.evalArray(ctx, n, env)

	case *BinaryExpr:
		return rt.evalBinary(ctx, n, env)

	case *AssignmentExpr:
		return rt.evalAssignment(ctx, n, env)

	case *CallExpr:
		return rt.evalCall(ctx, n, env)

	case *MemberExpr:
		return rt.evalMember(ctx, n, env)

	case *VarDeclaration:
		return rt.evalVarDeclaration(ctx, n, env)

	case *FunctionDeclaration:
		return rt.evalFunctionDeclaration(n, env)

	case *IfStatement:
		return rt.evalIf(ctx, n, env)

	case *WhileStatement:
		return rt.evalWhile(ctx, n, env)

	case *ForStatement:
		return rt.evalFor(ctx, n, env)

	case *ReturnStatement:
		return rt.evalReturn(ctx, n, env)
	}

	err := ErrUnsupportedNode.With(slog.String("node", kindOf(node)))
	if node != nil {
		err = err.WithPosition(node.Position())
	}

	return nil, err
}

// evalProgram runs the top-level statements. A return at this level stops
// the program; the signal is left for [Runtime.Eval] to unwrap.
func (rt *Runtime) evalProgram(ctx context.Context, prog *Program, env *Environment) (Value, error) {
	return rt.execBlock(ctx, prog.Body, env)
}

// execBlock evaluates stmts in order and yields the last value. It stops at
// the first return signal and hands it back unchanged.
func (rt *Runtime) execBlock(ctx context.Context, stmts []Stmt, env *Environment) (Value, error) {
	var last Value = Null{}

	for _, stmt := range stmts {
		v, err := rt.eval(ctx, stmt, env)
		if err != nil {
			return nil, err
		}

		if _, ok := v.(returnSignal); ok {
			return v, nil
		}

		last = v
	}

	return last, nil
}

// execBody is like execBlock but yields Null unless a return signal was
// raised. Conditional and loop bodies use it.
func (rt *Runtime) execBody(ctx context.Context, stmts []Stmt, env *Environment) (Value, bool, error) {
	v, err := rt.execBlock(ctx, stmts, env)
	if err != nil {
		return nil, false, err
	}

	if _, ok := v.(returnSignal); ok {
		return v, true, nil
	}

	return Null{}, false, nil
}

func (rt *Runtime) evalVarDeclaration(ctx context.Context, n *VarDeclaration, env *Environment) (Value, error) {
	var v Value = Null{}

	if n.Value != nil {
		var err error
		if v, err = rt.eval(ctx, n.Value, env); err != nil {
			return nil, err
		}
	}

	v, err := env.Declare(n.Name, v, n.Constant)
	if err != nil {
		return nil, at(n, err)
	}

	return v, nil
}

func (rt *Runtime) evalFunctionDeclaration(n *FunctionDeclaration, env *Environment) (Value, error) {
	fn := &Function{
		Name:       n.Name,
		Parameters: n.Parameters,
		Body:       n.Body,
		Closure:    env,
	}

	v, err := env.Declare(n.Name, fn, true)
	if err != nil {
		return nil, at(n, err)
	}

	return v, nil
}

func (rt *Runtime) evalIf(ctx context.Context, n *IfStatement, env *Environment) (Value, error) {
	ok, err := rt.condition(ctx, n.Condition, env)
	if err != nil {
		return nil, err
	}

	body := n.Else
	if ok {
		body = n.Then
	}

	v, _, err := rt.execBody(ctx, body, env)

	return v, err
}

// evalWhile loops in the enclosing scope until the condition is false or
// the body returns.
func (rt *Runtime) evalWhile(ctx context.Context, n *WhileStatement, env *Environment) (Value, error) {
	for {
		if err := interrupted(ctx, n); err != nil {
			return nil, err
		}

		ok, err := rt.condition(ctx, n.Condition, env)
		if err != nil {
			return nil, err
		}

		if !ok {
			return Null{}, nil
		}

		v, returned, err := rt.execBody(ctx, n.Body, env)
		if err != nil || returned {
			return v, err
		}
	}
}

// evalFor runs the loop in a single child scope holding the loop variable.
// Each iteration checks the condition, runs the body, then the increment.
func (rt *Runtime) evalFor(ctx context.Context, n *ForStatement, env *Environment) (Value, error) {
	scope := NewEnvironment(env)

	if n.Init != nil {
		if _, err := rt.eval(ctx, n.Init, scope); err != nil {
			return nil, err
		}
	}

	for {
		if err := interrupted(ctx, n); err != nil {
			return nil, err
		}

		ok, err := rt.condition(ctx, n.Condition, scope)
		if err != nil {
			return nil, err
		}

		if !ok {
			return Null{}, nil
		}

		v, returned, err := rt.execBody(ctx, n.Body, scope)
		if err != nil || returned {
			return v, err
		}

		if n.Increment != nil {
			if _, err := rt.eval(ctx, n.Increment, scope); err != nil {
				return nil, err
			}
		}
	}
}

func (rt *Runtime) evalReturn(ctx context.Context, n *ReturnStatement, env *Environment) (Value, error) {
	if n.Value == nil {
		return returnSignal{Value: Null{}}, nil
	}

	v, err := rt.eval(ctx, n.Value, env)
	if err != nil {
		return nil, err
	}

	// return return x
	if rs, ok := v.(returnSignal); ok {
		return rs, nil
	}

	return returnSignal{Value: v}, nil
}

// condition evaluates expr and requires a Boolean result.
func (rt *Runtime) condition(ctx context.Context, expr Expr, env *Environment) (bool, error) {
	v, err := rt.eval(ctx, expr, env)
	if err != nil {
		return false, err
	}

	b, ok := v.(Boolean)
	if !ok {
		return false, ErrNonBooleanCondition.WithPosition(expr.Position()).
			With(slog.String("type", v.Type().String()))
	}

	return bool(b), nil
}

func (rt *Runtime) evalBinary(ctx context.Context, n *BinaryExpr, env *Environment) (Value, error) {
	left, err := rt.eval(ctx, n.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := rt.eval(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	return BinaryOp(n.Operator, left, right), nil
}

// BinaryOp applies op to left and right. Numbers support arithmetic and
// comparison, Booleans support and/or in any letter case. Every other
// combination yields Null.
func BinaryOp(op string, left, right Value) Value {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return numericOp(op, float64(l), float64(r))
		}

	case Boolean:
		if r, ok := right.(Boolean); ok {
			return logicalOp(op, bool(l), bool(r))
		}
	}

	return Null{}
}

func numericOp(op string, l, r float64) Value {
	switch op {
	case "+":
		return Number(l + r)
	case "-":
		return Number(l - r)
	case "*":
		return Number(l * r)
	case "/":
		return Number(l / r)
	case "%":
		return Number(math.Mod(l, r))
	case "==":
		return Boolean(l == r)
	case "!=":
		return Boolean(l != r)
	case ">=":
		return Boolean(l >= r)
	case "<=":
		return Boolean(l <= r)
	case ">":
		return Boolean(l > r)
	case "<":
		return Boolean(l < r)
	}

	return Null{}
}

func logicalOp(op string, l, r bool) Value {
	switch {
	case strings.EqualFold(op, "and"):
		return Boolean(l && r)
	case strings.EqualFold(op, "or"):
		return Boolean(l || r)
	}

	return Null{}
}

func (rt *Runtime) evalAssignment(ctx context.Context, n *AssignmentExpr, env *Environment) (Value, error) {
	target, ok := n.Target.(*Identifier)
	if !ok {
		return nil, ErrInvalidAssignment.WithPosition(n.Pos).
			With(slog.String("target", kindOf(n.Target)))
	}

	v, err := rt.eval(ctx, n.Value, env)
	if err != nil {
		return nil, err
	}

	v, err = env.Assign(target.Name, v)
	if err != nil {
		return nil, at(target, err)
	}

	return v, nil
}

func (rt *Runtime) evalObject(ctx context.Context, n *ObjectLiteral, env *Environment) (Value, error) {
	obj := NewObject()

	for _, prop := range n.Properties {
		var (
			v   Value
			err error
		)

		if prop.Value == nil {
			v, err = env.Lookup(prop.Key)
			if err != nil {
				return nil, at(&Identifier{Name: prop.Key, Pos: prop.Pos}, err)
			}
		} else if v, err = rt.eval(ctx, prop.Value, env); err != nil {
			return nil, err
		}

		obj.Properties[prop.Key] = v
	}

	return obj, nil
}

func (rt *Runtime) evalArray(ctx context.Context, n *ArrayLiteral, env *Environment) (Value, error) {
	elems := make([]Value, 0, len(n.Elements))

	for _, elem := range n.Elements {
		v, err := rt.eval(ctx, elem, env)
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	return NewArray(elems...), nil
}

// evalCall evaluates the callee, then the arguments from left to right,
// then applies the call.
func (rt *Runtime) evalCall(ctx context.Context, n *CallExpr, env *Environment) (Value, error) {
	callee, err := rt.eval(ctx, n.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(n.Arguments))

	for _, arg := range n.Arguments {
		v, err := rt.eval(ctx, arg, env)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	v, err := rt.call(ctx, callee, args, env)
	if err != nil {
		return nil, at(n, err)
	}

	return v, nil
}

// call applies fn to args. Natives receive the caller's environment; user
// functions run in a fresh scope enclosed by their closure.
func (rt *Runtime) call(ctx context.Context, fn Value, args []Value, env *Environment) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrInterrupted.Wrap(context.Cause(ctx))
	}

	switch fn := fn.(type) {
	case *NativeFunction:
		rt.logger.TraceContext(ctx, "call native",
			slog.String("name", fn.Name), slog.Int("args", len(args)))

		v, err := fn.Fn(ctx, rt, args, env)
		if err != nil {
			var exit *ExitError
			if errors.As(err, &exit) {
				return nil, err
			}

			return nil, WrapError(err).With(slog.String("function", fn.Name))
		}

		if v == nil {
			v = Null{}
		}

		return v, nil

	case *Function:
		if len(args) != len(fn.Parameters) {
			return nil, ErrArityMismatch.With(
				slog.String("function", fn.Name),
				slog.Int("expected", len(fn.Parameters)),
				slog.Int("actual", len(args)),
			)
		}

		if rt.depth >= rt.maxDepth {
			return nil, ErrMaxDepthExceeded.With(
				slog.String("function", fn.Name),
				slog.Int("max_depth", rt.maxDepth),
			)
		}

		rt.depth++
		defer func() { rt.depth-- }()

		scope := NewEnvironment(fn.Closure)

		for i, param := range fn.Parameters {
			if _, err := scope.Declare(param, args[i], false); err != nil {
				return nil, err
			}
		}

		v, err := rt.execBlock(ctx, fn.Body, scope)
		if err != nil {
			return nil, err
		}

		if rs, ok := v.(returnSignal); ok {
			return rs.Value, nil
		}

		return Null{}, nil
	}

	return nil, ErrNotCallable.With(slog.String("type", typeOf(fn)))
}

func (rt *Runtime) evalMember(ctx context.Context, n *MemberExpr, env *Environment) (Value, error) {
	obj, err := rt.eval(ctx, n.Object, env)
	if err != nil {
		return nil, err
	}

	var key Value

	if id, ok := n.Property.(*Identifier); ok && !n.Computed {
		key = String(id.Name)
	} else if key, err = rt.eval(ctx, n.Property, env); err != nil {
		return nil, err
	}

	v, err := Member(obj, key)
	if err != nil {
		return nil, at(n, err)
	}

	return v, nil
}

// Member selects key from obj. Missing object properties and out-of-range
// indices yield Null.
func Member(obj, key Value) (Value, error) {
	switch o := obj.(type) {
	case *Object:
		name, ok := propertyName(key)
		if !ok {
			break
		}

		if v, ok := o.Properties[name]; ok {
			return v, nil
		}

		return Null{}, nil

	case *Array:
		i, ok := index(key)
		if !ok {
			break
		}

		if i < 0 || i >= len(o.Elements) {
			return Null{}, nil
		}

		return o.Elements[i], nil

	case String:
		i, ok := index(key)
		if !ok {
			break
		}

		runes := []rune(string(o))
		if i >= 0 && i < len(runes) {
			return String(string(runes[i])), nil
		}

		return Null{}, nil
	}

	return nil, ErrInvalidMember.With(
		slog.String("object", typeOf(obj)),
		slog.String("key", typeOf(key)),
	)
}

func propertyName(key Value) (string, bool) {
	switch k := key.(type) {
	case String:
		return string(k), true
	case Number:
		return k.String(), true
	}

	return "", false
}

// index converts a numeric key to a slice index. Fractional numbers are
// reported as -1 so they read as out of range.
func index(key Value) (int, bool) {
	n, ok := key.(Number)
	if !ok {
		return 0, false
	}

	f := float64(n)
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return -1, true
	}

	return int(f), true
}

func typeOf(v Value) string {
	if v == nil {
		return "nil"
	}

	return v.Type().String()
}

// interrupted reports cancellation of ctx as an error positioned at node.
func interrupted(ctx context.Context, node Node) error {
	if ctx.Err() == nil {
		return nil
	}

	return ErrInterrupted.WithPosition(node.Position()).Wrap(context.Cause(ctx))
}

// at attaches the position of node to err unless err already carries one.
func at(node Node, err error) error {
	var exit *ExitError
	if errors.As(err, &exit) {
		return err
	}

	e := WrapError(err)
	if _, ok := e.Position(); ok {
		return e
	}

	return e.WithPosition(node.Position())
}
