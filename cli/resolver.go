package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/findof1/maw/cli/cmd"
	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/lang/builtin"
	"github.com/findof1/maw/log"
)

// resolveTimeout bounds the evaluation of the configuration script.
const resolveTimeout = 5 * time.Second

// resolve returns a [kong.ConfigurationLoader] that evaluates a Maw script
// and reads flag values from the object bound to [cmd.ConfigBinding].
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.maws")
//
// Values are converted as follows:
//   - Object keys name flags in lower camel case ("logLevel"); the literal
//     flag name and its underscore spelling are accepted too
//   - Numbers become strings so kong parses them with the flag's mapper
//   - Arrays become lists, used by slice flags
//   - Strings and Booleans are used as is
//
// Example config script:
//
//	const config = {
//	  logLevel: "debug",
//	  logPretty: false,
//	  preload: ["~/lib.maws"],
//	}
//
// Command-line flags override config values. A script that fails to parse
// or run is logged and ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := io.ReadAll(r)
		if err != nil {
			log.WarnContext(ctx, "config unreadable", slog.Any("error", err))

			return config{}, nil
		}

		obj, err := evalConfig(ctx, string(src))
		if err != nil {
			log.WarnContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		if obj == nil {
			return config{}, nil
		}

		cfg := make(config, len(obj.Properties))
		for key, val := range obj.Properties {
			cfg[key] = flagValue(val)
		}

		return cfg, nil
	}
}

// evalConfig runs src in an isolated runtime and returns the object bound
// to [cmd.ConfigBinding], or nil if there is none.
func evalConfig(ctx context.Context, src string) (*lang.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	rt := lang.NewRuntime(
		lang.WithStdin(strings.NewReader("")),
		lang.WithStdout(io.Discard),
		lang.WithStderr(io.Discard),
		lang.WithRuntimeLogger(log.Default()),
		lang.WithLibrary(builtin.Install),
	)

	env, err := rt.NewGlobalEnv()
	if err != nil {
		return nil, err
	}

	if _, err := rt.RunIn(ctx, src, env); err != nil {
		return nil, err
	}

	val, err := env.Lookup(cmd.ConfigBinding)
	if err != nil {
		return nil, nil //nolint:nilerr // an unbound config is empty
	}

	obj, _ := val.(*lang.Object)

	return obj, nil
}

// flagValue converts v to a value kong can decode into a flag.
func flagValue(v lang.Value) any {
	switch v := v.(type) {
	case lang.Number:
		return lang.FormatNumber(float64(v))
	case *lang.Array:
		list := make([]any, len(v.Elements))
		for i, elem := range v.Elements {
			list[i] = flagValue(elem)
		}

		return list
	default:
		return lang.ToNative(v)
	}
}

// config implements [kong.Resolver] for Maw configuration scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
		cmd.ConfigKey(flag.Name),
	} {
		if value, ok := r[key]; ok {
			return value, nil
		}
	}

	return nil, nil
}
