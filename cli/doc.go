// Package cli contains the command line interface for maw.
//
// # Usage
//
// Running a script is the default command:
//
//	maw script.maws arg1 arg2
//	maw run - < script.maws
//	maw repl
//	maw fmt json script.maws
//
// # Global Options
//
//   - --preload, -s: evaluate a script into the global scope before the
//     command runs; repeatable, '-' reads stdin
//   - --define, -D: declare NAME as a global constant bound to the value
//     of the expression EXPR (NAME=EXPR); repeatable
//
// # Configuration
//
// Flag defaults are read from a Maw script in the configuration directory
// (~/.config/maw/config.maws). The script runs in an isolated runtime and
// binds an object named config whose keys are flag names in lower camel
// case:
//
//	const config = {
//	  logLevel: "info",
//	  preload: ["~/lib/prelude.maws"],
//	}
//
// Command-line flags override config values. Use "maw init" to write the
// current defaults. A JSON file of the same name plus ".json" is also read.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o maw .
//
//   - --pprof-mode, -p: Enable profiling (allocs, block, clock, cpu, heap,
//     goroutine, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/maw/pprof)
package cli
