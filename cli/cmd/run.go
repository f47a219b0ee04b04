package cmd

import (
	"context"
	"log/slog"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/log"
)

// Run evaluates a script file. It is the default command, so the command
// name may be omitted.
type Run struct {
	Script string   `arg:"" default:"-" help:"Script file to run or '-' for stdin." name:"script"`
	Args   []string `arg:"" help:"Arguments bound to the global constant args." name:"args" optional:"" passthrough:""`
}

// Run executes the run command. A script calling exit returns a
// [*lang.ExitError] for the caller to honor.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := readScript(r.Script, streamsFrom(ctx).In)
	if err != nil {
		return err
	}

	rt := newRuntime(ctx, Streams{})

	env, err := prepare(ctx, rt, r.Args)
	if err != nil {
		return err
	}

	result, err := rt.RunIn(ctx, s.src, env)
	if err != nil {
		if isExit(err) {
			return err
		}

		return lang.WrapError(err).With(
			slog.String("command", "run"),
			slog.String("script", s.name),
		)
	}

	log.DebugContext(ctx, "script finished",
		slog.String("script", s.name),
		slog.String("result", lang.Display(result)),
	)

	return nil
}
