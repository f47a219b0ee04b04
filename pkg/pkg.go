//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the maw module embedded at build time.
// It is printed by the version subcommand.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text and
	// in the default configuration and cache paths.
	Name = "maw"
	// Description is a short summary of the project used in help output.
	Description = "Interpreter for the Maw scripting language"
	// ScriptExt is the file extension of Maw source files.
	ScriptExt = ".maws"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"findof1", ""},
}
