package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/findof1/maw/cli/cmd"
	"github.com/findof1/maw/pkg"
)

// CLI is the top-level command-line interface for maw.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Preload []string `help:"Script(s) evaluated into the global scope first, or '-' for stdin" name:"preload" short:"s"`
	Define  []string `help:"Declare global constant NAME with the value of expression EXPR"   placeholder:"NAME=EXPR" sep:"none" short:"D"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run a script"`
	Repl    cmd.Repl    `cmd:"" help:"Start an interactive session"`
	Fmt     cmd.Fmt     `cmd:"" help:"Format or dump the syntax tree of a script"`
	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Version cmd.Version `cmd:"" help:"Print version"`
}

// Run executes the maw CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing so that messages emitted while
	// loading the configuration honor the command line.
	cli.Log.scan(args)

	var groups []kong.Group

	for _, g := range []kong.Group{cli.Log.group(), cli.Pprof.group()} {
		if g.Key != "" {
			groups = append(groups, g)
		}
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithPrelude(ctx, cmd.Prelude{
		Preload: cli.Preload,
		Define:  cli.Define,
	})

	cli.Log.start(ctx)

	// no-op unless built with tag pprof and a mode is selected
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
