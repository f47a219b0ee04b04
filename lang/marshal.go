package lang

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
)

// MarshalJSON implements json.Marshaler for Program.
func (prog *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(prog.ToMap())
}

// ToMap converts the program to a tree of native Go maps and slices.
// Every node becomes a map with a "kind" key naming its variant.
func (prog *Program) ToMap() map[string]any {
	return NodeMap(prog)
}

// NodeMap converts a single node (and its children) to native Go values.
func NodeMap(node Node) map[string]any {
	if node == nil {
		return nil
	}

	m := map[string]any{"kind": node.Kind().String()}

	switch n := node.(type) {
	case *Program:
		m["body"] = stmtList(n.Body)

	case *VarDeclaration:
		m["name"] = n.Name
		m["constant"] = n.Constant

		if n.Value != nil {
			m["value"] = NodeMap(n.Value)
		}

	case *FunctionDeclaration:
		m["name"] = n.Name
		m["parameters"] = slices.Clone(n.Parameters)
		m["body"] = stmtList(n.Body)

	case *IfStatement:
		m["condition"] = NodeMap(n.Condition)
		m["then"] = stmtList(n.Then)

		if n.Else != nil {
			m["else"] = stmtList(n.Else)
		}

	case *WhileStatement:
		m["condition"] = NodeMap(n.Condition)
		m["body"] = stmtList(n.Body)

	case *ForStatement:
		if n.Init != nil {
			m["init"] = NodeMap(n.Init)
		}

		m["condition"] = NodeMap(n.Condition)

		if n.Increment != nil {
			m["increment"] = NodeMap(n.Increment)
		}

		m["body"] = stmtList(n.Body)

	case *ReturnStatement:
		if n.Value != nil {
			m["value"] = NodeMap(n.Value)
		}

	case *AssignmentExpr:
		m["target"] = NodeMap(n.Target)
		m["value"] = NodeMap(n.Value)

	case *BinaryExpr:
		m["operator"] = n.Operator
		m["left"] = NodeMap(n.Left)
		m["right"] = NodeMap(n.Right)

	case *CallExpr:
		m["callee"] = NodeMap(n.Callee)

		args := make([]any, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = NodeMap(arg)
		}

		m["arguments"] = args

	case *MemberExpr:
		m["object"] = NodeMap(n.Object)
		m["property"] = NodeMap(n.Property)
		m["computed"] = n.Computed

	case *Identifier:
		m["name"] = n.Name

	case *NumericLiteral:
		m["value"] = n.Value

	case *StringLiteral:
		m["value"] = n.Value

	case *ObjectLiteral:
		props := make([]any, len(n.Properties))
		for i, prop := range n.Properties {
			p := map[string]any{"key": prop.Key}
			if prop.Value != nil {
				p["value"] = NodeMap(prop.Value)
			}

			props[i] = p
		}

		m["properties"] = props

	case *ArrayLiteral:
		elems := make([]any, len(n.Elements))
		for i, elem := range n.Elements {
			elems[i] = NodeMap(elem)
		}

		m["elements"] = elems
	}

	return m
}

func stmtList(stmts []Stmt) []any {
	list := make([]any, len(stmts))
	for i, stmt := range stmts {
		list[i] = NodeMap(stmt)
	}

	return list
}

// ToNative converts a runtime value to plain Go data: nil, float64, string,
// bool, map[string]any and []any. Functions become their display string.
// Non-finite numbers become their display string since JSON and YAML
// cannot encode them portably.
func ToNative(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Number:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}

		return f
	case String:
		return string(v)
	case Boolean:
		return bool(v)
	case *Object:
		m := make(map[string]any, len(v.Properties))
		for key, prop := range v.Properties {
			m[key] = ToNative(prop)
		}

		return m
	case *Array:
		list := make([]any, len(v.Elements))
		for i, elem := range v.Elements {
			list[i] = ToNative(elem)
		}

		return list
	default:
		return v.String()
	}
}

// FromNative converts plain Go data to a runtime value. Integers and floats
// become Number; maps with string keys become Object; slices and arrays
// become Array. Other types are rejected.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Boolean(x), nil
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case map[string]any:
		obj := NewObject()

		for key, elem := range x {
			v, err := FromNative(elem)
			if err != nil {
				return nil, err
			}

			obj.Properties[key] = v
		}

		return obj, nil
	case []any:
		arr := NewArray()

		for _, elem := range x {
			v, err := FromNative(elem)
			if err != nil {
				return nil, err
			}

			arr.Elements = append(arr.Elements, v)
		}

		return arr, nil
	}

	return fromReflect(reflect.ValueOf(x))
}

// fromReflect handles the typed numeric, slice and map kinds not covered by
// the fast path in [FromNative].
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		arr := NewArray()

		for i := range rv.Len() {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			arr.Elements = append(arr.Elements, v)
		}

		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		obj := NewObject()

		iter := rv.MapRange()
		for iter.Next() {
			v, err := FromNative(iter.Value().Interface())
			if err != nil {
				return nil, err
			}

			obj.Properties[iter.Key().String()] = v
		}

		return obj, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}

		return FromNative(rv.Elem().Interface())
	case reflect.Invalid:
		return Null{}, nil
	}

	return nil, ErrInvalidArgument.Wrap(
		fmt.Errorf("cannot convert %s to a value", rv.Type()),
	).With(slog.String("go_type", rv.Type().String()))
}

// Display renders v the way print shows it.
func Display(v Value) string {
	if v == nil {
		return "null"
	}

	return v.String()
}

// Quote renders v the way it appears nested inside an aggregate, with
// strings quoted. Quoted Numbers, Strings and Booleans read back as source
// evaluate to an equal value.
func Quote(v Value) string {
	if s, ok := v.(String); ok {
		return quoteString(string(s))
	}

	return Display(v)
}
