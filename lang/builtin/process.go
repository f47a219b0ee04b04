package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/findof1/maw/lang"
)

var processNatives = []native{
	{name: "print", params: []string{"values..."}, fn: printFn},
	{name: "input", params: []string{"prompt?"}, fn: inputFn},
	{name: "exit", params: []string{"code?"}, fn: exitFn},
	{name: "sleep", params: []string{"ms"}, fn: sleepFn},
	{name: "time", fn: timeFn},
	{name: "delete", params: []string{"name"}, fn: deleteFn},
	{name: "parseCode", params: []string{"src"}, fn: parseCodeFn},
	{name: "parseScopedCode", params: []string{"src"}, fn: parseScopedCodeFn},
}

// printFn writes each argument on its own line.
func printFn(
	_ context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	for _, v := range vals {
		if _, err := fmt.Fprintln(rt.Stdout(), lang.Display(v)); err != nil {
			return nil, err
		}
	}

	return lang.Null{}, nil
}

// inputFn writes the optional prompt and reads one line from standard input.
// End of input yields whatever was read, possibly the empty string.
func inputFn(
	_ context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("input", vals)

	if args.has(0) {
		prompt, err := args.str(0)
		if err != nil {
			return nil, err
		}

		if _, err := io.WriteString(rt.Stdout(), prompt); err != nil {
			return nil, err
		}
	}

	line, err := rt.Stdin().ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return lang.String(strings.TrimRight(line, "\r\n")), nil
}

// exitFn requests termination with the given status, 1 by default.
func exitFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("exit", vals)

	code := 1

	if args.has(0) {
		n, err := args.number(0)
		if err != nil {
			return nil, err
		}

		code = int(n)
	}

	return nil, &lang.ExitError{Code: code}
}

// sleepFn blocks for the given number of milliseconds or until ctx ends.
func sleepFn(
	ctx context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	ms, err := argsOf("sleep", vals).number(0)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return lang.Null{}, nil
	case <-ctx.Done():
		return nil, lang.ErrInterrupted.Wrap(context.Cause(ctx))
	}
}

// timeFn returns milliseconds since the Unix epoch.
func timeFn(
	_ context.Context,
	rt *lang.Runtime,
	_ []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	return lang.Number(rt.Now().UnixMilli()), nil
}

// deleteFn removes the nearest binding of a name visible from the caller.
// Failure is logged and otherwise ignored.
func deleteFn(
	ctx context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	env *lang.Environment,
) (lang.Value, error) {
	name, err := argsOf("delete", vals).str(0)
	if err != nil {
		return nil, err
	}

	if err := env.Delete(name); err != nil {
		rt.Logger().WarnContext(ctx, "delete failed",
			slog.String("name", name), slog.Any("error", err))
	}

	return lang.Null{}, nil
}

// parseCodeFn evaluates source in the caller's environment, so its
// declarations remain visible afterwards.
func parseCodeFn(
	ctx context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	env *lang.Environment,
) (lang.Value, error) {
	args := argsOf("parseCode", vals)
	if !args.has(0) {
		return lang.Null{}, nil
	}

	src, err := args.str(0)
	if err != nil {
		return nil, err
	}

	if _, err := rt.RunIn(ctx, src, env); err != nil {
		return nil, err
	}

	return lang.Null{}, nil
}

// parseScopedCodeFn evaluates source in a brand-new global environment.
func parseScopedCodeFn(
	ctx context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("parseScopedCode", vals)
	if !args.has(0) {
		return lang.Null{}, nil
	}

	src, err := args.str(0)
	if err != nil {
		return nil, err
	}

	if _, err := rt.Run(ctx, src); err != nil {
		return nil, err
	}

	return lang.Null{}, nil
}
