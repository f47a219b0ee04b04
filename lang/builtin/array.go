package builtin

import (
	"context"
	"strings"

	"github.com/findof1/maw/lang"
)

var arrayNatives = []native{
	{name: "pushTo", params: []string{"arr", "v"}, fn: pushFn("pushTo", false)},
	{name: "pushToFront", params: []string{"arr", "v"}, fn: pushFn("pushToFront", true)},
	{name: "popFrom", params: []string{"arr"}, fn: popFn("popFrom", false)},
	{name: "popFromFront", params: []string{"arr"}, fn: popFn("popFromFront", true)},
	{name: "join", params: []string{"arr"}, fn: joinFn},
}

// pushFn returns a native that inserts a value at the end (or front) of an
// array in place.
func pushFn(name string, front bool) lang.NativeFunc {
	return func(
		_ context.Context,
		_ *lang.Runtime,
		vals []lang.Value,
		_ *lang.Environment,
	) (lang.Value, error) {
		args := argsOf(name, vals)

		arr, err := args.array(0)
		if err != nil {
			return nil, err
		}

		v, err := args.value(1)
		if err != nil {
			return nil, err
		}

		if front {
			arr.Elements = append([]lang.Value{v}, arr.Elements...)
		} else {
			arr.Elements = append(arr.Elements, v)
		}

		return lang.Null{}, nil
	}
}

// popFn returns a native that removes the last (or first) element of an
// array in place and yields it. Empty arrays yield null.
func popFn(name string, front bool) lang.NativeFunc {
	return func(
		_ context.Context,
		_ *lang.Runtime,
		vals []lang.Value,
		_ *lang.Environment,
	) (lang.Value, error) {
		arr, err := argsOf(name, vals).array(0)
		if err != nil {
			return nil, err
		}

		n := len(arr.Elements)
		if n == 0 {
			return lang.Null{}, nil
		}

		var v lang.Value

		if front {
			v, arr.Elements = arr.Elements[0], arr.Elements[1:]
		} else {
			v, arr.Elements = arr.Elements[n-1], arr.Elements[:n-1]
		}

		return v, nil
	}
}

// joinFn concatenates the display forms of an array's elements.
func joinFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	arr, err := argsOf("join", vals).array(0)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, v := range arr.Elements {
		sb.WriteString(lang.Display(v))
	}

	return lang.String(sb.String()), nil
}
