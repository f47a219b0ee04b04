package lang

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type identifies the variant of a runtime [Value].
type Type int

const (
	TypeNull           Type = iota // null
	TypeNumber                     // number
	TypeString                     // string
	TypeBoolean                    // boolean
	TypeObject                     // object
	TypeArray                      // array
	TypeFunction                   // function
	TypeNativeFunction             // native-fn
)

var typeNames = [...]string{
	TypeNull:           "null",
	TypeNumber:         "number",
	TypeString:         "string",
	TypeBoolean:        "boolean",
	TypeObject:         "object",
	TypeArray:          "array",
	TypeFunction:       "function",
	TypeNativeFunction: "native-fn",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Value is a runtime value. The set of implementations is closed:
// [Null], [Number], [String], [Boolean], [*Object], [*Array], [*Function]
// and [*NativeFunction].
type Value interface {
	Type() Type
	// String renders the value the way print displays it.
	String() string
	value()
}

// Null is the absence of a value.
type Null struct{}

// Number is an IEEE-754 double.
type Number float64

// String is an immutable text value.
type String string

// Boolean is a truth value.
type Boolean bool

// Object is a mutable string-keyed mapping. Objects are shared by
// reference.
type Object struct {
	Properties map[string]Value
}

// Array is a mutable ordered sequence. Arrays are shared by reference.
type Array struct {
	Elements []Value
}

// Function is a user-defined function with the environment active at its
// declaration captured as Closure.
type Function struct {
	Closure    *Environment
	Name       string
	Parameters []string
	Body       []Stmt
}

// NativeFunc is the host-side implementation of a [NativeFunction].
// It receives the runtime that is evaluating the call and the environment
// of the caller.
type NativeFunc func(
	ctx context.Context,
	rt *Runtime,
	args []Value,
	env *Environment,
) (Value, error)

// NativeFunction is a callable implemented by the host. Params names the
// expected arguments for help output; it is not enforced.
type NativeFunction struct {
	Fn     NativeFunc
	Name   string
	Params []string
}

// returnSignal carries a return value up to the nearest call boundary.
// It never escapes evaluation.
type returnSignal struct {
	Value Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{Properties: make(map[string]Value)}
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array {
	if elems == nil {
		elems = make([]Value, 0)
	}

	return &Array{Elements: elems}
}

// NewNative wraps fn as a named native function.
func NewNative(name string, fn NativeFunc, params ...string) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn, Params: params}
}

func (Null) Type() Type            { return TypeNull }
func (Number) Type() Type          { return TypeNumber }
func (String) Type() Type          { return TypeString }
func (Boolean) Type() Type         { return TypeBoolean }
func (*Object) Type() Type         { return TypeObject }
func (*Array) Type() Type          { return TypeArray }
func (*Function) Type() Type       { return TypeFunction }
func (*NativeFunction) Type() Type { return TypeNativeFunction }
func (returnSignal) Type() Type    { return TypeNull }

func (Null) value()           {}
func (Number) value()         {}
func (String) value()         {}
func (Boolean) value()        {}
func (*Object) value()        {}
func (*Array) value()         {}
func (*Function) value()      {}
func (*NativeFunction) value() {}
func (returnSignal) value()   {}

func (Null) String() string { return "null" }

func (n Number) String() string { return FormatNumber(float64(n)) }

func (s String) String() string { return string(s) }

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

func (o *Object) String() string {
	var sb strings.Builder

	writeValue(&sb, o, false)

	return sb.String()
}

func (a *Array) String() string {
	var sb strings.Builder

	writeValue(&sb, a, false)

	return sb.String()
}

func (f *Function) String() string {
	return "[Function: " + f.Name + "]"
}

func (f *NativeFunction) String() string {
	return "[Native: " + f.Name + "]"
}

func (r returnSignal) String() string { return r.Value.String() }

// Keys returns the object's property names in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Properties))
	for key := range o.Properties {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Signature renders the function's call form, e.g. "add(a, b)".
func (f *Function) Signature() string {
	return f.Name + "(" + strings.Join(f.Parameters, ", ") + ")"
}

// Signature renders the native function's call form, e.g. "pow(x, y)".
func (f *NativeFunction) Signature() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// FormatNumber renders n without a fractional part when it is integral.
// Non-finite values are spelled Infinity, -Infinity and NaN.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.Abs(n) >= 1e21:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

// quoteString renders s as source that evaluates back to s. Literals have
// no escapes, so text holding both quote kinds becomes a chain of concat
// calls over single-kind pieces.
func quoteString(s string) string {
	if !strings.ContainsRune(s, '"') || !strings.ContainsRune(s, '\'') {
		return quote(s)
	}

	var (
		parts []string
		start int
		kind  rune
	)

	for i, r := range s {
		if r != '"' && r != '\'' {
			continue
		}

		if kind != 0 && r != kind {
			parts = append(parts, quote(s[start:i]))
			start = i
		}

		kind = r
	}

	parts = append(parts, quote(s[start:]))

	out := parts[0]
	for _, part := range parts[1:] {
		out = "concat(" + out + ", " + part + ")"
	}

	return out
}

// writeValue renders v into sb. Nested strings are quoted so that
// aggregates read unambiguously.
func writeValue(sb *strings.Builder, v Value, nested bool) {
	switch v := v.(type) {
	case String:
		if nested {
			sb.WriteString(quoteString(string(v)))
		} else {
			sb.WriteString(string(v))
		}

	case *Array:
		if len(v.Elements) == 0 {
			sb.WriteString("[]")

			return
		}

		sb.WriteString("[ ")

		for i, elem := range v.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, elem, true)
		}

		sb.WriteString(" ]")

	case *Object:
		if len(v.Properties) == 0 {
			sb.WriteString("{}")

			return
		}

		sb.WriteString("{ ")

		for i, key := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(key)
			sb.WriteString(": ")
			writeValue(sb, v.Properties[key], true)
		}

		sb.WriteString(" }")

	case nil:
		sb.WriteString("null")

	default:
		sb.WriteString(v.String())
	}
}

// Truthy reports whether v is the Boolean true.
func Truthy(v Value) bool {
	b, ok := v.(Boolean)

	return ok && bool(b)
}

// Equal reports whether a and b are the same value. Scalars compare by
// value; aggregates and functions compare by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)

		return ok
	case Number:
		n, ok := b.(Number)

		return ok && a == n
	case String:
		s, ok := b.(String)

		return ok && a == s
	case Boolean:
		t, ok := b.(Boolean)

		return ok && a == t
	default:
		return a == b
	}
}
