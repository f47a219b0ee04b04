// Package cmd implements the maw subcommands: run, repl, fmt, init and
// version.
//
// Commands receive their shared state through the [context.Context] passed
// by kong. The CLI stores the parsed [kong.Context] with [WithContext], the
// global session setup with [WithPrelude], and tests may redirect the
// standard streams with [WithStreams].
package cmd

import "unicode"

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration script.
	ConfigIdentifier = "config"
)

// ConfigBinding is the global name the configuration script binds its
// settings object to.
const ConfigBinding = "config"

// ConfigKey returns the configuration object key of a flag: the flag name
// in lower camel case, as Maw identifiers consist of letters only.
// For example, "log-time-layout" becomes "logTimeLayout".
func ConfigKey(flag string) string {
	var (
		b     []rune
		upper bool
	)

	for _, r := range flag {
		switch {
		case r == '-' || r == '_':
			upper = len(b) > 0
		case upper:
			b = append(b, unicode.ToUpper(r))
			upper = false
		default:
			b = append(b, r)
		}
	}

	return string(b)
}
