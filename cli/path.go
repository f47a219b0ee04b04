package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/findof1/maw/pkg"
)

// baseConfig is the base name of the configuration script.
const baseConfig = "config" + pkg.ScriptExt

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// basePrefix returns the name of the configuration and cache directories:
// the base name of the executable, see [prefixOf].
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return prefixOf(id)
	},
)

// prefixRules rewrite executable names that make poor directory names.
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^.+\.test$`), pkg.Name},      // go test binaries
	{regexp.MustCompile(`^\.+`), ""},                  // leading dot(s)
}

// prefixOf derives a directory name from the executable path exe by
// removing its directories and extension and applying [prefixRules].
func prefixOf(exe string) string {
	base := filepath.Base(exe)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	if strings.HasSuffix(base, ".test") {
		id = base
	}

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	if id == "" {
		return pkg.Name
	}

	return id
}

// userDir returns the directory from base, falling back to fallback under
// the home directory and finally to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configDir returns the configuration directory path.
func configDir() string { return userDir(os.UserConfigDir, ".config") }

// cacheDir returns the directory of transient files: REPL history and
// profiles.
func cacheDir() string { return userDir(os.UserCacheDir, ".cache") }

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
