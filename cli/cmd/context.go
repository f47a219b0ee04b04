package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" when ctx carries no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

type (
	streamsKey struct{}
	preludeKey struct{}
)

// Streams are the standard streams used by commands and the scripts they
// run. Nil fields default to the process's streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use s.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// Prelude is the global setup applied before a script or REPL session
// starts.
type Prelude struct {
	// Preload lists scripts evaluated into the global environment, in order.
	Preload []string
	// Define lists NAME=EXPR pairs declared as global constants. EXPR is
	// evaluated with expr-lang.
	Define []string
}

// WithPrelude returns a new context.Context carrying p.
func WithPrelude(ctx context.Context, p Prelude) context.Context {
	return context.WithValue(ctx, preludeKey{}, p)
}

func preludeFrom(ctx context.Context) Prelude {
	p, _ := ctx.Value(preludeKey{}).(Prelude)

	return p
}
