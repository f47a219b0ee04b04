package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/findof1/maw/lang"
)

var mathNatives = []native{
	{name: "random", params: []string{"min?", "max?"}, fn: randomFn},
	{name: "pi", fn: constant(math.Pi)},
	{name: "e", fn: constant(math.E)},
	{name: "pow", params: []string{"x", "y"}, fn: powFn},
	unary("round", round),
	unary("ceil", math.Ceil),
	unary("floor", math.Floor),
	unary("abs", math.Abs),
	unary("sqrt", math.Sqrt),
	unary("factorial", factorial),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
}

// randomFn returns a uniform float in [0, 1) without arguments, or a
// uniform integer in [ceil(min), floor(max)] with two.
func randomFn(
	_ context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("random", vals)

	switch len(vals) {
	case 0:
		return lang.Number(rt.Rand().Float64()), nil
	case 2:
	default:
		return nil, lang.ErrInvalidArgument.Wrap(
			fmt.Errorf("random: expected 0 or 2 arguments, got %d", len(vals)),
		)
	}

	lo, err := args.number(0)
	if err != nil {
		return nil, err
	}

	hi, err := args.number(1)
	if err != nil {
		return nil, err
	}

	lo, hi = math.Ceil(lo), math.Floor(hi)

	return lang.Number(math.Floor(rt.Rand().Float64()*(hi-lo+1)) + lo), nil
}

func constant(x float64) lang.NativeFunc {
	return func(context.Context, *lang.Runtime, []lang.Value, *lang.Environment) (lang.Value, error) {
		return lang.Number(x), nil
	}
}

func powFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("pow", vals)

	x, err := args.number(0)
	if err != nil {
		return nil, err
	}

	y, err := args.number(1)
	if err != nil {
		return nil, err
	}

	return lang.Number(math.Pow(x, y)), nil
}

// round rounds half up, so round(-2.5) is -2.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// factorial multiplies 2 through n. Values below 2 yield 1.
func factorial(n float64) float64 {
	result := 1.0

	for i := 2.0; i <= n; i++ {
		result *= i

		if math.IsInf(result, 1) {
			break
		}
	}

	return result
}
