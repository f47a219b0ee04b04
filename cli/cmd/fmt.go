package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/log"
)

// Fmt parses a script and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native Maw syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Dump the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Dump the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print an outline of the syntax tree."`
}

// Input names the script read by a fmt subcommand.
type Input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// parse reads and parses the input script. The format name is attached to
// any error.
func (in Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	var r io.Reader

	if in.Source == stdinSource {
		r = streamsFrom(ctx).In
	} else {
		file, err := os.Open(in.Source)
		if err != nil {
			return nil, ErrReadScript.
				With(slog.String("file", in.Source)).
				Wrap(err)
		}
		defer file.Close()

		r = file
	}

	prog, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("format", format),
			slog.String("file", in.Source),
		)
	}

	return prog, nil
}

// Native formats input as native Maw syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 writes the program on one line." short:"i"`

	Input `embed:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := n.parse(ctx, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, streamsFrom(ctx).Out, n.Indent)
}

// JSON parses input and writes its syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 is compact." short:"i"`

	Input `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent); err != nil {
		return ErrMarshal.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML parses input and writes its syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 uses flow style." short:"i"`

	Input `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent); err != nil {
		return ErrMarshal.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// AST prints an indented outline of the syntax tree.
type AST struct {
	Input `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return prog.Print(ctx, streamsFrom(ctx).Out)
}
