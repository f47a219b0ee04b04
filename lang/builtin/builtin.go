// Package builtin provides the native functions installed into every Maw
// global environment: console and process control, file access, string,
// math and array helpers, and host introspection.
//
// Natives validate their arguments and report misuse as
// [lang.ErrInvalidArgument]. File natives never fail; they return the error
// text as a string instead.
package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/findof1/maw/lang"
)

// Predefined errors (sentinel values).
var (
	ErrInstall     = lang.NewError("failed to install native")
	ErrExprCompile = lang.NewError("failed to compile expression")
	ErrExprRun     = lang.NewError("failed to evaluate expression")
	ErrEncode      = lang.NewError("failed to encode value")
	ErrDecode      = lang.NewError("failed to decode value")
)

// native describes one binding created by [Install].
type native struct {
	name   string
	params []string
	fn     lang.NativeFunc
}

// groups lists every native, in installation order.
var groups = [][]native{
	processNatives,
	fileNatives,
	stringNatives,
	mathNatives,
	arrayNatives,
	hostNatives,
}

// Install declares every native as a constant in env. It satisfies
// [lang.Library].
func Install(env *lang.Environment) error {
	for _, group := range groups {
		for _, n := range group {
			fn := lang.NewNative(n.name, n.fn, n.params...)
			if _, err := env.Declare(n.name, fn, true); err != nil {
				return ErrInstall.Wrap(err).With(slog.String("name", n.name))
			}
		}
	}

	return nil
}

// Names returns the names of all natives, sorted.
func Names() []string {
	var names []string

	for _, group := range groups {
		for _, n := range group {
			names = append(names, n.name)
		}
	}

	slices.Sort(names)

	return names
}

// arguments gives typed access to the arguments of a native call.
type arguments struct {
	fn   string
	vals []lang.Value
}

func argsOf(fn string, vals []lang.Value) arguments {
	return arguments{fn: fn, vals: vals}
}

// has reports whether argument i was supplied.
func (a arguments) has(i int) bool { return i < len(a.vals) }

func (a arguments) value(i int) (lang.Value, error) {
	if !a.has(i) {
		return nil, lang.ErrInvalidArgument.Wrap(
			fmt.Errorf("%s: missing argument %d", a.fn, i+1),
		).With(slog.String("function", a.fn), slog.Int("index", i))
	}

	return a.vals[i], nil
}

func (a arguments) number(i int) (float64, error) {
	v, err := a.value(i)
	if err != nil {
		return 0, err
	}

	n, ok := v.(lang.Number)
	if !ok {
		return 0, a.mismatch(i, lang.TypeNumber, v)
	}

	return float64(n), nil
}

func (a arguments) str(i int) (string, error) {
	v, err := a.value(i)
	if err != nil {
		return "", err
	}

	s, ok := v.(lang.String)
	if !ok {
		return "", a.mismatch(i, lang.TypeString, v)
	}

	return string(s), nil
}

func (a arguments) array(i int) (*lang.Array, error) {
	v, err := a.value(i)
	if err != nil {
		return nil, err
	}

	arr, ok := v.(*lang.Array)
	if !ok {
		return nil, a.mismatch(i, lang.TypeArray, v)
	}

	return arr, nil
}

// strings returns arguments i and later, which must all be strings.
func (a arguments) strings(i int) ([]string, error) {
	out := make([]string, 0, max(len(a.vals)-i, 0))

	for j := i; j < len(a.vals); j++ {
		s, err := a.str(j)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

func (a arguments) mismatch(i int, want lang.Type, got lang.Value) error {
	return lang.ErrInvalidArgument.Wrap(
		fmt.Errorf("%s: expected %s for argument %d, got %s",
			a.fn, want, i+1, got.Type()),
	).With(
		slog.String("function", a.fn),
		slog.Int("index", i),
		slog.String("expected", want.String()),
		slog.String("actual", got.Type().String()),
	)
}

// unary adapts a float64 function into a one-argument numeric native.
func unary(name string, f func(float64) float64) native {
	return native{
		name:   name,
		params: []string{"x"},
		fn: func(_ context.Context, _ *lang.Runtime, vals []lang.Value, _ *lang.Environment) (lang.Value, error) {
			x, err := argsOf(name, vals).number(0)
			if err != nil {
				return nil, err
			}

			return lang.Number(f(x)), nil
		},
	}
}

// stringMap adapts a string function into a one-argument string native.
func stringMap(name string, f func(string) string) native {
	return native{
		name:   name,
		params: []string{"s"},
		fn: func(_ context.Context, _ *lang.Runtime, vals []lang.Value, _ *lang.Environment) (lang.Value, error) {
			s, err := argsOf(name, vals).str(0)
			if err != nil {
				return nil, err
			}

			return lang.String(f(s)), nil
		},
	}
}
