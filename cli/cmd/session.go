package cmd

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/lang/builtin"
	"github.com/findof1/maw/log"
)

// argsIdentifier is the global constant holding the script arguments.
const argsIdentifier = "args"

// newRuntime returns a runtime wired to the streams in ctx with the native
// library installed. Non-nil overrides replace the corresponding stream.
func newRuntime(ctx context.Context, overrides Streams) *lang.Runtime {
	s := streamsFrom(ctx)

	if overrides.In != nil {
		s.In = overrides.In
	}

	if overrides.Out != nil {
		s.Out = overrides.Out
	}

	if overrides.Err != nil {
		s.Err = overrides.Err
	}

	return lang.NewRuntime(
		lang.WithStdin(s.In),
		lang.WithStdout(s.Out),
		lang.WithStderr(s.Err),
		lang.WithRuntimeLogger(log.Default()),
		lang.WithParseOptions(lang.WithCache(true)),
		lang.WithLibrary(builtin.Install),
	)
}

// prepare creates the global environment of a session. It binds args,
// declares the --define constants and evaluates the --preload scripts, in
// that order.
func prepare(
	ctx context.Context,
	rt *lang.Runtime,
	args []string,
) (*lang.Environment, error) {
	env, err := rt.NewGlobalEnv()
	if err != nil {
		return nil, err
	}

	argv := make([]lang.Value, len(args))
	for i, arg := range args {
		argv[i] = lang.String(arg)
	}

	if _, err := env.Declare(argsIdentifier, lang.NewArray(argv...), true); err != nil {
		return nil, err
	}

	prelude := preludeFrom(ctx)

	if err := define(env, prelude.Define); err != nil {
		return nil, err
	}

	scripts, err := readScripts(prelude.Preload, streamsFrom(ctx).In)
	if err != nil {
		return nil, err
	}

	for _, s := range scripts {
		log.DebugContext(ctx, "preload", slog.String("script", s.name))

		if _, err := rt.RunIn(ctx, s.src, env); err != nil {
			if isExit(err) {
				return nil, err
			}

			return nil, ErrPreload.
				With(slog.String("script", s.name)).
				Wrap(err)
		}
	}

	return env, nil
}

// define declares each NAME=EXPR pair in defs as a constant of env. Each
// expression sees the constants defined before it.
func define(env *lang.Environment, defs []string) error {
	for _, def := range defs {
		name, src, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || !isIdentifier(name) {
			return ErrInvalidDefine.With(slog.String("define", def))
		}

		v, err := builtin.Expr(src, builtin.ExprVars(env))
		if err != nil {
			return ErrInvalidDefine.With(slog.String("define", def)).Wrap(err)
		}

		if _, err := env.Declare(name, v, true); err != nil {
			return ErrInvalidDefine.With(slog.String("define", def)).Wrap(err)
		}
	}

	return nil
}

// isIdentifier reports whether name lexes as exactly one identifier.
func isIdentifier(name string) bool {
	tokens, err := lang.Tokenize(name)
	if err != nil || len(tokens) != 2 {
		return false
	}

	return tokens[0].Kind == lang.TokenIdentifier && tokens[0].Text == name
}

func isExit(err error) bool {
	var exit *lang.ExitError

	return errors.As(err, &exit)
}
