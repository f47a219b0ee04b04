package builtin

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/findof1/maw/lang"
)

var stringNatives = []native{
	{name: "concat", params: []string{"a", "b"}, fn: concatFn},
	{name: "length", params: []string{"v"}, fn: lengthFn},
	{name: "toNumber", params: []string{"s"}, fn: toNumberFn},
	{name: "toString", params: []string{"v"}, fn: toStringFn},
	stringMap("uppercase", strings.ToUpper),
	stringMap("lowercase", strings.ToLower),
	stringMap("trim", strings.TrimSpace),
	{name: "reverse", params: []string{"v"}, fn: reverseFn},
	{name: "toArray", params: []string{"v"}, fn: toArrayFn},
}

func concatFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("concat", vals)

	a, err := args.str(0)
	if err != nil {
		return nil, err
	}

	b, err := args.str(1)
	if err != nil {
		return nil, err
	}

	return lang.String(a + b), nil
}

// lengthFn counts the runes of a string, the elements of an array, or the
// characters of a number's display form.
func lengthFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("length", vals)

	v, err := args.value(0)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case lang.String:
		return lang.Number(utf8.RuneCountInString(string(v))), nil
	case *lang.Array:
		return lang.Number(len(v.Elements)), nil
	case lang.Number:
		return lang.Number(len(v.String())), nil
	}

	return nil, args.mismatch(0, lang.TypeString, v)
}

// toNumberFn reads a leading integer from s, ignoring leading whitespace
// and any trailing text. NaN is returned when no digits are found.
func toNumberFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	s, err := argsOf("toNumber", vals).str(0)
	if err != nil {
		return nil, err
	}

	return lang.Number(parseLeadingInt(s)), nil
}

func parseLeadingInt(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := 1.0

	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(s)
	}

	if end == 0 {
		return math.NaN()
	}

	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}

	return sign * n
}

func toStringFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	v, err := argsOf("toString", vals).value(0)
	if err != nil {
		return nil, err
	}

	return lang.String(lang.Display(v)), nil
}

// reverseFn reverses a string by rune, the digits of a number, or an array
// in place.
func reverseFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("reverse", vals)

	v, err := args.value(0)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case lang.String:
		return lang.String(reverseString(string(v))), nil
	case lang.Number:
		return lang.Number(parseLeadingInt(reverseString(v.String()))), nil
	case *lang.Array:
		slices.Reverse(v.Elements)

		return v, nil
	}

	return nil, args.mismatch(0, lang.TypeString, v)
}

func reverseString(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)

	return string(runes)
}

// toArrayFn splits a string, or the display form of a number, into an
// array of single-character strings.
func toArrayFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("toArray", vals)

	v, err := args.value(0)
	if err != nil {
		return nil, err
	}

	var s string

	switch v := v.(type) {
	case lang.String:
		s = string(v)
	case lang.Number:
		s = v.String()
	default:
		return nil, args.mismatch(0, lang.TypeString, v)
	}

	arr := lang.NewArray()
	for _, r := range s {
		arr.Elements = append(arr.Elements, lang.String(string(r)))
	}

	return arr, nil
}
