package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/findof1/maw/cli/cmd/repl"
	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/log"
)

// Repl starts an interactive session.
type Repl struct {
	History bool     `default:"true" help:"Persist input history in the cache directory." negatable:""`
	Args    []string `arg:""         help:"Values bound to the args constant."           optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if r.History {
		cacheDir = kongVar(ctx, CacheIdentifier)
	}

	return repl.Run(ctx, r.session, cacheDir, log.Default())
}

// session creates the runtime of a REPL session. Script output is captured
// by the REPL and input reads see an exhausted stream, as the terminal
// belongs to the line editor.
func (r *Repl) session(
	ctx context.Context,
	out io.Writer,
) (*lang.Runtime, *lang.Environment, error) {
	rt := newRuntime(ctx, Streams{
		In:  strings.NewReader(""),
		Out: out,
	})

	env, err := prepare(ctx, rt, r.Args)
	if err != nil {
		return nil, nil, err
	}

	return rt, env, nil
}
