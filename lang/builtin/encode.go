package builtin

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/findof1/maw/lang"
)

// Expr compiles and runs an expr-lang expression with vars as its
// environment and converts the result to a Maw value.
func Expr(src string, vars map[string]any) (lang.Value, error) {
	if vars == nil {
		vars = make(map[string]any)
	}

	program, err := expr.Compile(src, expr.Env(vars))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).With(slog.String("source", src))
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, ErrExprRun.Wrap(err).With(slog.String("source", src))
	}

	return lang.FromNative(out)
}

// ExprVars returns the expr-lang environment for code running in env: every
// visible non-function binding converted with [lang.ToNative], plus an
// env(name) function reading the process environment.
func ExprVars(env *lang.Environment) map[string]any {
	vars := make(map[string]any)

	if env != nil {
		for _, name := range env.Visible() {
			if slices.Contains([]string{"true", "false", "null"}, name) {
				continue
			}

			v, err := env.Lookup(name)
			if err != nil {
				continue
			}

			switch v.(type) {
			case *lang.Function, *lang.NativeFunction:
				continue
			}

			vars[name] = lang.ToNative(v)
		}
	}

	vars["env"] = os.Getenv

	return vars
}

func exprFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	env *lang.Environment,
) (lang.Value, error) {
	src, err := argsOf("expr", vals).str(0)
	if err != nil {
		return nil, err
	}

	return Expr(src, ExprVars(env))
}

func toJSONFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("toJSON", vals)

	v, err := args.value(0)
	if err != nil {
		return nil, err
	}

	indent := 0

	if args.has(1) {
		n, err := args.number(1)
		if err != nil {
			return nil, err
		}

		indent = int(n)
	}

	var data []byte

	if indent > 0 {
		data, err = json.MarshalIndent(lang.ToNative(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(lang.ToNative(v))
	}

	if err != nil {
		return nil, ErrEncode.Wrap(err).With(slog.String("format", "json"))
	}

	return lang.String(data), nil
}

func fromJSONFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	s, err := argsOf("fromJSON", vals).str(0)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "json"))
	}

	return lang.FromNative(out)
}

func toYAMLFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	v, err := argsOf("toYAML", vals).value(0)
	if err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(integral(lang.ToNative(v)))
	if err != nil {
		return nil, ErrEncode.Wrap(err).With(slog.String("format", "yaml"))
	}

	return lang.String(data), nil
}

func fromYAMLFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	s, err := argsOf("fromYAML", vals).str(0)
	if err != nil {
		return nil, err
	}

	var out any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "yaml"))
	}

	return lang.FromNative(out)
}

// integral converts whole float64 values to int64 throughout x, so YAML
// renders them without a fractional part.
func integral(x any) any {
	switch x := x.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
	case map[string]any:
		for key, elem := range x {
			x[key] = integral(elem)
		}
	case []any:
		for i, elem := range x {
			x[i] = integral(elem)
		}
	}

	return x
}
